//go:build !nomeasure

package measure

// Scope times one entry into a region. It is a value: start it at the top of
// the region and stop it exactly once, usually with
//
//	defer rec.Start().Stop()
//
// which also runs when the region panics.
type Scope[R Timed] struct {
	rec   R
	start int64
}

// NewScope starts a Scope on rec.
func NewScope[R Timed](rec R) Scope[R] {
	return Scope[R]{rec: rec, start: rec.Now()}
}

// Stop records the time since the scope started.
func (s Scope[R]) Stop() { s.rec.Done(s.start) }

// RecursiveScope is a Scope that only reads the clock when it is the
// outermost scope on its record.
type RecursiveScope[R Nested] struct {
	rec   R
	start int64
}

// NewRecursiveScope enters rec and starts timing if it was the outermost entry.
func NewRecursiveScope[R Nested](rec R) (s RecursiveScope[R]) {
	s.rec = rec
	if rec.Enter() {
		s.start = rec.Now()
	}
	return s
}

// Stop exits the record and records the time if this was the outermost scope.
func (s RecursiveScope[R]) Stop() {
	if s.rec.Exit() {
		s.rec.Done(s.start)
	}
}
