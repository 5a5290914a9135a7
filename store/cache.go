package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/escrowswap/errors"
)

const treeDegree = 8

// entry is a key with its value. In a cache wrap a deleted entry hides
// the value of the parent store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = (*entry)(nil)

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

func lookup(bt *btree.BTree, key []byte) *entry {
	if it := bt.Get(&entry{key: key}); it != nil {
		return it.(*entry)
	}
	return nil
}

// collect returns the entries in [start, end) in ascending order. A nil
// bound is unbounded.
func collect(bt *btree.BTree, start, end []byte) []*entry {
	var res []*entry
	visit := func(it btree.Item) bool {
		res = append(res, it.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(visit)
	case start == nil:
		bt.AscendLessThan(&entry{key: end}, visit)
	case end == nil:
		bt.AscendGreaterOrEqual(&entry{key: start}, visit)
	default:
		bt.AscendRange(&entry{key: start}, &entry{key: end}, visit)
	}
	return res
}

// Cacheable adds cache wraps to a plain KVStore.
type Cacheable struct {
	KVStore
}

var _ CacheableKVStore = Cacheable{}

// CacheWrap stages writes on top of the wrapped store.
func (c Cacheable) CacheWrap() KVCacheWrap {
	return NewCacheWrap(c.KVStore)
}

// CacheWrap keeps staged writes in a btree until they are written to the
// parent store or discarded.
type CacheWrap struct {
	parent KVStore
	staged *btree.BTree
}

var _ KVCacheWrap = (*CacheWrap)(nil)

// NewCacheWrap returns an empty cache on top of parent.
func NewCacheWrap(parent KVStore) *CacheWrap {
	return &CacheWrap{
		parent: parent,
		staged: btree.New(treeDegree),
	}
}

// CacheWrap nests another cache on top of this one.
func (c *CacheWrap) CacheWrap() KVCacheWrap {
	return NewCacheWrap(c)
}

// Len returns the number of staged writes, deletes included.
func (c *CacheWrap) Len() int {
	return c.staged.Len()
}

func (c *CacheWrap) Get(key []byte) ([]byte, error) {
	if e := lookup(c.staged, key); e != nil {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c *CacheWrap) Has(key []byte) (bool, error) {
	if e := lookup(c.staged, key); e != nil {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c *CacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	c.staged.ReplaceOrInsert(&entry{key: key, value: value})
	return nil
}

func (c *CacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	c.staged.ReplaceOrInsert(&entry{key: key, deleted: true})
	return nil
}

// Iterator merges the staged writes into the parent range.
func (c *CacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return merge(parent, collect(c.staged, start, end))
}

// Write applies the staged writes to the parent in key order and empties
// the cache. A failing parent write stops the walk, entries before it are
// already applied.
func (c *CacheWrap) Write() error {
	var err error
	c.staged.Ascend(func(it btree.Item) bool {
		e := it.(*entry)
		if e.deleted {
			err = c.parent.Delete(e.key)
		} else {
			err = c.parent.Set(e.key, e.value)
		}
		return err == nil
	})
	c.Discard()
	if err != nil {
		return errors.Wrap(err, "write cache")
	}
	return nil
}

// Discard drops every staged write.
func (c *CacheWrap) Discard() {
	c.staged.Clear(false)
}
