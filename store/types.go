//nolint
package store

import "github.com/iov-one/escrowswap"

// Aliases of the store interfaces, for shorter names in this package and
// in store implementations.

type ReadOnlyKVStore = escrowswap.ReadOnlyKVStore
type KVStore = escrowswap.KVStore
type Iterator = escrowswap.Iterator
type CacheableKVStore = escrowswap.CacheableKVStore
type KVCacheWrap = escrowswap.KVCacheWrap
type CommitKVStore = escrowswap.CommitKVStore
type CommitID = escrowswap.CommitID
