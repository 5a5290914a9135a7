package store

import (
	"github.com/google/btree"
	"github.com/iov-one/escrowswap/errors"
)

// MemStore returns an empty in-memory store. Nothing is persisted, it
// backs tests and simulations.
func MemStore() CacheableKVStore {
	return Cacheable{KVStore: &memKV{tree: btree.New(treeDegree)}}
}

type memKV struct {
	tree *btree.BTree
}

var _ KVStore = (*memKV)(nil)

func (m *memKV) Get(key []byte) ([]byte, error) {
	if e := lookup(m.tree, key); e != nil {
		return e.value, nil
	}
	return nil, nil
}

func (m *memKV) Has(key []byte) (bool, error) {
	return m.tree.Has(&entry{key: key}), nil
}

func (m *memKV) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	m.tree.ReplaceOrInsert(&entry{key: key, value: value})
	return nil
}

func (m *memKV) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	m.tree.Delete(&entry{key: key})
	return nil
}

func (m *memKV) Iterator(start, end []byte) (Iterator, error) {
	entries := collect(m.tree, start, end)
	res := make([]Model, len(entries))
	for i, e := range entries {
		res[i] = Model{Key: e.key, Value: e.value}
	}
	return NewSliceIterator(res), nil
}
