package escrowswap

// ReadOnlyKVStore is the read side of the ledger state.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists.
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil bound
	// is unbounded. Writes to the range are not allowed while the
	// iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side of the ledger state.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what programs, decorators and the executor work on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

/*
Iterator returns the entries of a key range one by one.

  it, err := db.Iterator(start, end)
  ...
  defer it.Release()
  for {
    k, v, err := it.Next()
    if errors.ErrIteratorDone.Is(err) {
      break
    }
    // ...
  }
*/
type Iterator interface {
	// Next returns the following entry, or ErrIteratorDone once the range
	// is exhausted.
	Next() (key, value []byte, err error)

	// Release frees resources held by the iterator.
	Release()
}

// CacheableKVStore can stage changes in a cache wrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes on top of a store. Reads see the staged
// writes. Write applies them to the parent, Discard drops them. Cache
// wraps nest, which is how a transaction and each of its instructions
// get their own rollback point.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is the persistent root of the ledger state.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap stages changes on the working state.
	CacheWrap() KVCacheWrap

	// Commit persists the working state as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. After a crash
	// during commit it returns the last stable version.
	LoadLatestVersion() error

	// LatestVersion describes the latest persisted version.
	LatestVersion() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
