package store

import (
	"bytes"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// SliceIterator returns preloaded models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.data = nil
}

// ReadAll drains the iterator and returns every model it yields.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Model{Key: key, Value: value})
	}
}

// merge combines a parent range with the staged entries of the same range.
// Staged values shadow the parent and deleted entries hide it.
func merge(parent Iterator, staged []*entry) (Iterator, error) {
	theirs, err := ReadAll(parent)
	if err != nil {
		return nil, err
	}

	res := make([]Model, 0, len(theirs)+len(staged))
	i := 0
	for _, e := range staged {
		for i < len(theirs) && bytes.Compare(theirs[i].Key, e.key) < 0 {
			res = append(res, theirs[i])
			i++
		}
		if i < len(theirs) && bytes.Equal(theirs[i].Key, e.key) {
			i++
		}
		if !e.deleted {
			res = append(res, Model{Key: e.key, Value: e.value})
		}
	}
	res = append(res, theirs[i:]...)
	return NewSliceIterator(res), nil
}

// PrefixEnd returns the exclusive end of a range covering all keys that
// start with prefix. It returns nil if no such end exists.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// PrefixIterator walks all keys starting with prefix.
func PrefixIterator(kv ReadOnlyKVStore, prefix []byte) (Iterator, error) {
	return kv.Iterator(prefix, PrefixEnd(prefix))
}

// EachAccount calls fn for every stored account in key order. Iteration
// stops at the first error fn returns.
func EachAccount(kv ReadOnlyKVStore, fn func(key escrowswap.PublicKey, acct *escrowswap.Account) error) error {
	it, err := PrefixIterator(kv, escrowswap.AccountPrefix)
	if err != nil {
		return errors.Wrap(err, "account iterator")
	}
	defer it.Release()

	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return nil
		}
		if err != nil {
			return err
		}
		key, err := escrowswap.ParseAccountKey(k)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		var acct escrowswap.Account
		if err := acct.Unmarshal(v); err != nil {
			return errors.Wrapf(err, "account %s", key)
		}
		if err := fn(key, &acct); err != nil {
			return err
		}
	}
}
