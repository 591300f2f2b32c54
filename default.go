package measure

// New constructs a Record on the Default backend.
func New(name string, opts ...Option) *Record[Default] {
	return NewRecord[Default](name, opts...)
}

// NewSync constructs a SyncRecord on the Default backend.
func NewSync(name string, opts ...Option) *SyncRecord[Default] {
	return NewSyncRecord[Default](name, opts...)
}

// NewRecursive constructs a RecursiveRecord on the Default backend.
func NewRecursive(name string, opts ...Option) *RecursiveRecord[Default] {
	return NewRecursiveRecord[Default](name, opts...)
}

// NewSyncRecursive constructs a SyncRecursiveRecord on the Default backend.
func NewSyncRecursive(name string, opts ...Option) *SyncRecursiveRecord[Default] {
	return NewSyncRecursiveRecord[Default](name, opts...)
}

// Get returns the SyncRecord on the Default backend for a name computed at
// runtime. It is slow: call it outside of loops and keep the result.
func Get(name string) *SyncRecord[Default] {
	return GetSyncRecord[Default](name)
}
