package decision

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	usageCapacity = 100
	usageEviction = 20
)

// UsageStat is one entry of the usage snapshot.
type UsageStat struct {
	ToolName string
	Count    int
}

// usageHistory is a bounded ordered map of tool name to selection count.
// Insertion order is retained so eviction can break count ties
// deterministically (oldest first). The bound is fixed at construction;
// growth is handled by evicting the least-used block, never by resizing.
type usageHistory struct {
	counts   *orderedmap.OrderedMap[string, int]
	capacity int
	eviction int
}

func newUsageHistory() *usageHistory {
	return &usageHistory{
		counts:   orderedmap.New[string, int](),
		capacity: usageCapacity,
		eviction: usageEviction,
	}
}

func (u *usageHistory) count(name string) int {
	c, _ := u.counts.Get(name)
	return c
}

func (u *usageHistory) record(name string) {
	c, _ := u.counts.Get(name)
	u.counts.Set(name, c+1)
	if u.counts.Len() <= u.capacity {
		return
	}

	type ranked struct {
		name  string
		count int
		order int
	}
	all := make([]ranked, 0, u.counts.Len())
	i := 0
	for pair := u.counts.Oldest(); pair != nil; pair = pair.Next() {
		all = append(all, ranked{name: pair.Key, count: pair.Value, order: i})
		i++
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].count != all[b].count {
			return all[a].count < all[b].count
		}
		return all[a].order < all[b].order
	})
	for _, victim := range all[:u.eviction] {
		u.counts.Delete(victim.name)
	}
}

// snapshot returns usage ordered most-used first, ties by insertion order.
func (u *usageHistory) snapshot() []UsageStat {
	stats := make([]UsageStat, 0, u.counts.Len())
	for pair := u.counts.Oldest(); pair != nil; pair = pair.Next() {
		stats = append(stats, UsageStat{ToolName: pair.Key, Count: pair.Value})
	}
	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Count > stats[b].Count
	})
	return stats
}
