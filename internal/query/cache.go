package query

import (
	"sync"

	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
)

type cacheKey struct {
	table       string
	predicate   string
	fingerprint uint64
}

type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Cache memoizes select results by table, normalized predicate and the
// fingerprint of the rows they were computed from. Entries are never evicted;
// a mutation changes the fingerprint so old entries are simply never hit again.
type Cache struct {
	entries pkg.Map[cacheKey, []builder.Row]
	stats   CacheStats
	locker  sync.Mutex
}

func NewCache() *Cache {
	return &Cache{entries: pkg.Map[cacheKey, []builder.Row]{}}
}

func (c *Cache) GetLocker() *sync.Mutex { return &c.locker }

// Get returns the stored result for the key or stores and returns compute().
func (c *Cache) Get(table string, pred *types.Predicate, fingerprint uint64, compute func() []builder.Row) []builder.Row {
	key := cacheKey{table: table, predicate: pred.Key(), fingerprint: fingerprint}

	var rows []builder.Row
	pkg.LockWrap(c, func() {
		if cached, ok := c.entries[key]; ok {
			c.stats.Hits++
			rows = cached
			return
		}
		c.stats.Misses++
		rows = compute()
		c.entries.Set(key, rows)
	})
	return cloneRows(rows)
}

func (c *Cache) Len() int {
	var n int
	pkg.LockWrap(c, func() { n = len(c.entries) })
	return n
}

func (c *Cache) Stats() CacheStats {
	var s CacheStats
	pkg.LockWrap(c, func() { s = c.stats })
	return s
}

func cloneRows(rows []builder.Row) []builder.Row {
	return pkg.Map2(rows, func(row builder.Row) builder.Row { return row.Clone() })
}
