// Package naming 为新单位和新建筑分配展示用名字。名字只用于展示，不参与任何规则判断。
package naming

import (
	"fmt"
	"sort"
	"sync"

	"Dawnforge/internal/game/rng"
)

type Category string

const (
	Villager Category = "villager"
	Soldier  Category = "soldier"
	Building Category = "building"
)

// 名字池耗尽后的编号前缀
var fallbackLabel = map[Category]string{
	Villager: "Villager",
	Soldier:  "Soldier",
	Building: "Building",
}

// DefaultPools 是内置名字池。
func DefaultPools() map[Category][]string {
	return map[Category][]string{
		Villager: {"Ada", "Bram", "Cora", "Dain", "Edda", "Finn", "Gwen", "Hale", "Ines", "Joss", "Kaia", "Lorn", "Mira", "Nell", "Osric", "Pia"},
		Soldier:  {"Aldric", "Brenna", "Cedric", "Dagny", "Eamon", "Freya", "Gunnar", "Hilde", "Ivo", "Jorun"},
		Building: {"Oakridge", "Stonewatch", "Millbrook", "Ashford", "Redfern", "Highgate", "Elmstead", "Greywater"},
	}
}

// Allocator 自己持有名字池和计数器，构造一次后显式传递。并发安全。
type Allocator struct {
	mu       sync.Mutex
	src      rng.Source
	base     map[Category][]string
	pools    map[Category][]string
	counters map[Category]int
}

// New 使用内置名字池。
func New(src rng.Source) *Allocator {
	return NewWithPools(src, DefaultPools())
}

func NewWithPools(src rng.Source, pools map[Category][]string) *Allocator {
	a := &Allocator{src: src, base: make(map[Category][]string, len(pools))}
	for c, names := range pools {
		a.base[c] = append([]string(nil), names...)
	}
	a.Reset()
	return a
}

// Next 从该类别的洗牌池里取一个名字；池耗尽后返回 "Villager 12" 这样的编号名。
func (a *Allocator) Next(c Category) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.nextLocked(c)
}

func (a *Allocator) nextLocked(c Category) string {
	a.counters[c]++
	if pool := a.pools[c]; len(pool) > 0 {
		name := pool[0]
		a.pools[c] = pool[1:]
		return name
	}
	label, ok := fallbackLabel[c]
	if !ok {
		label = string(c)
	}
	return fmt.Sprintf("%s %d", label, a.counters[c])
}

// Reset 重新洗牌并清零计数器。
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pools = make(map[Category][]string, len(a.base))
	a.counters = make(map[Category]int, len(a.base))
	// 按类别名顺序洗牌，同一随机源得到同样的池
	cats := make([]Category, 0, len(a.base))
	for c := range a.base {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		pool := append([]string(nil), a.base[c]...)
		rng.Shuffle(a.src, pool)
		a.pools[c] = pool
	}
}

// Issued 返回该类别已分配的名字数。
func (a *Allocator) Issued(c Category) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters[c]
}

// Counters 各类别已分配数的拷贝，随存档保存。
func (a *Allocator) Counters() map[Category]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[Category]int, len(a.counters))
	for c, n := range a.counters {
		if n > 0 {
			out[c] = n
		}
	}
	return out
}

// Restore 在刚洗好的池上跳过已分配的名字，读档后接着原来的顺序分配。
func (a *Allocator) Restore(counts map[Category]int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for c, n := range counts {
		for i := a.counters[c]; i < n; i++ {
			a.nextLocked(c)
		}
	}
}
