// Package measure keeps flat, per name totals of time and calls for regions
// of code.
//
// A region is measured by starting a scope on a record at its top and
// stopping it when it exits:
//
//	var parseRecord = measure.New("parse")
//
//	func parse(buf []byte) error {
//		defer parseRecord.Start().Stop()
//		...
//	}
//
// Records come in four policies. Record is the fastest but must only be used
// from one goroutine at a time and double counts recursive calls. SyncRecord
// can be used from many goroutines. RecursiveRecord only times the outermost
// of nested scopes. SyncRecursiveRecord does both, tracking nesting per
// goroutine.
//
// Every record is generic over a Backend, the clock it reads, and registers
// itself with the Database for that backend, which keeps records in
// registration order for reports. Records for names only known at runtime are
// obtained with GetRecord and friends, which create each name once. They take
// a lock on first use, so look them up outside of loops.
//
// Building with the nomeasure tag replaces every record, scope and database
// with an empty implementation so instrumented code costs nothing.
package measure
