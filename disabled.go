//go:build nomeasure

package measure

// Enabled reports if measurements are compiled in.
const Enabled = false

// Record does nothing when built with the nomeasure tag.
type Record[B Backend] struct{}

func NewRecord[B Backend](string, ...Option) *Record[B] { return nil }

func (*Record[B]) Name() string             { return "" }
func (*Record[B]) Now() int64               { return 0 }
func (*Record[B]) Done(int64)               {}
func (*Record[B]) Calls() uint64            { return 0 }
func (*Record[B]) Ticks() int64             { return 0 }
func (*Record[B]) Total() float64           { return 0 }
func (*Record[B]) Reset()                   {}
func (*Record[B]) Start() Scope[*Record[B]] { return Scope[*Record[B]]{} }

// SyncRecord does nothing when built with the nomeasure tag.
type SyncRecord[B Backend] struct{ Record[B] }

func NewSyncRecord[B Backend](string, ...Option) *SyncRecord[B] { return nil }

func (*SyncRecord[B]) Start() Scope[*SyncRecord[B]] { return Scope[*SyncRecord[B]]{} }

// RecursiveRecord does nothing when built with the nomeasure tag.
type RecursiveRecord[B Backend] struct{ Record[B] }

func NewRecursiveRecord[B Backend](string, ...Option) *RecursiveRecord[B] { return nil }

func (*RecursiveRecord[B]) Enter() bool  { return false }
func (*RecursiveRecord[B]) Exit() bool   { return false }
func (*RecursiveRecord[B]) Depth() int32 { return 0 }
func (*RecursiveRecord[B]) Start() RecursiveScope[*RecursiveRecord[B]] {
	return RecursiveScope[*RecursiveRecord[B]]{}
}

// SyncRecursiveRecord does nothing when built with the nomeasure tag.
type SyncRecursiveRecord[B Backend] struct{ SyncRecord[B] }

func NewSyncRecursiveRecord[B Backend](string, ...Option) *SyncRecursiveRecord[B] { return nil }

func (*SyncRecursiveRecord[B]) Enter() bool  { return false }
func (*SyncRecursiveRecord[B]) Exit() bool   { return false }
func (*SyncRecursiveRecord[B]) Depth() int32 { return 0 }
func (*SyncRecursiveRecord[B]) Start() RecursiveScope[*SyncRecursiveRecord[B]] {
	return RecursiveScope[*SyncRecursiveRecord[B]]{}
}

// Scope does nothing when built with the nomeasure tag.
type Scope[R Timed] struct{}

func NewScope[R Timed](R) Scope[R] { return Scope[R]{} }
func (Scope[R]) Stop()             {}

// RecursiveScope does nothing when built with the nomeasure tag.
type RecursiveScope[R Nested] struct{}

func NewRecursiveScope[R Nested](R) RecursiveScope[R] { return RecursiveScope[R]{} }
func (RecursiveScope[R]) Stop()                       {}

// Database is always empty when built with the nomeasure tag.
type Database[B Backend] struct{}

func DatabaseFor[B Backend]() *Database[B] { return nil }
func Sources() []Source                    { return nil }

func (*Database[B]) Title() string {
	var b B
	return b.Title()
}

func (*Database[B]) Add(Entry)                 {}
func (*Database[B]) Find(string) (Entry, bool) { return nil, false }
func (*Database[B]) Len() int                  { return 0 }
func (*Database[B]) Records() []Entry          { return nil }
func (*Database[B]) Snapshot() []Row           { return nil }
func (*Database[B]) ResetAll()                 {}

func GetRecord[B Backend](string) *Record[B]                           { return nil }
func GetSyncRecord[B Backend](string) *SyncRecord[B]                   { return nil }
func GetRecursiveRecord[B Backend](string) *RecursiveRecord[B]         { return nil }
func GetSyncRecursiveRecord[B Backend](string) *SyncRecursiveRecord[B] { return nil }

func Start() RecursiveScope[*SyncRecursiveRecord[Default]] {
	return RecursiveScope[*SyncRecursiveRecord[Default]]{}
}

// Thunk does nothing when built with the nomeasure tag.
type Thunk struct{}

func (*Thunk) Start() RecursiveScope[*SyncRecursiveRecord[Default]] {
	return RecursiveScope[*SyncRecursiveRecord[Default]]{}
}
