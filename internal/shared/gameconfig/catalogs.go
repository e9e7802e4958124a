package gameconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"Dawnforge/internal/game/resource"
)

// Catalogs 是只读目录索引，加载完成后不再修改，可被多个存档共享。
type Catalogs struct {
	set Set

	resources map[resource.Kind]*ResourceDef
	ages      map[string]*AgeDef
	buildings map[string]*BuildingDef
	units     map[string]*UnitDef
	research  map[string]*ResearchDef
	items     map[string]*ItemDef
	events    map[string]*EventDef

	ageOrder []*AgeDef
	digest   string
}

// New 建索引并检查 id 唯一性与交叉引用。
func New(set Set) (*Catalogs, error) {
	c := &Catalogs{
		set:       set,
		resources: make(map[resource.Kind]*ResourceDef, len(set.Resources)),
		ages:      make(map[string]*AgeDef, len(set.Ages)),
		buildings: make(map[string]*BuildingDef, len(set.Buildings)),
		units:     make(map[string]*UnitDef, len(set.Units)),
		research:  make(map[string]*ResearchDef, len(set.Research)),
		items:     make(map[string]*ItemDef, len(set.Items)),
		events:    make(map[string]*EventDef, len(set.Events)),
	}
	if err := index(c.resources, set.Resources, func(d *ResourceDef) resource.Kind { return d.ID }, "resource"); err != nil {
		return nil, err
	}
	if err := index(c.ages, set.Ages, func(d *AgeDef) string { return d.ID }, "age"); err != nil {
		return nil, err
	}
	if err := index(c.buildings, set.Buildings, func(d *BuildingDef) string { return d.ID }, "building"); err != nil {
		return nil, err
	}
	if err := index(c.units, set.Units, func(d *UnitDef) string { return d.ID }, "unit"); err != nil {
		return nil, err
	}
	if err := index(c.research, set.Research, func(d *ResearchDef) string { return d.ID }, "research"); err != nil {
		return nil, err
	}
	if err := index(c.items, set.Items, func(d *ItemDef) string { return d.ID }, "item"); err != nil {
		return nil, err
	}
	if err := index(c.events, set.Events, func(d *EventDef) string { return d.ID }, "event"); err != nil {
		return nil, err
	}
	if len(c.ages) == 0 {
		return nil, fmt.Errorf("catalog: at least one age is required")
	}

	c.ageOrder = make([]*AgeDef, 0, len(c.ages))
	for _, a := range c.ages {
		c.ageOrder = append(c.ageOrder, a)
	}
	sort.Slice(c.ageOrder, func(i, j int) bool { return c.ageOrder[i].Order < c.ageOrder[j].Order })

	if err := c.checkRefs(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("catalog: digest: %w", err)
	}
	sum := sha256.Sum256(raw)
	c.digest = hex.EncodeToString(sum[:])
	return c, nil
}

// MustNew 同 New，目录损坏属于编程错误，直接 panic。
func MustNew(set Set) *Catalogs {
	c, err := New(set)
	if err != nil {
		panic(err)
	}
	return c
}

func index[K comparable, T any](dst map[K]*T, list []T, key func(*T) K, kind string) error {
	for i := range list {
		d := &list[i]
		k := key(d)
		var zero K
		if k == zero {
			return fmt.Errorf("catalog: %s #%d has empty id", kind, i)
		}
		if _, dup := dst[k]; dup {
			return fmt.Errorf("catalog: duplicate %s id %v", kind, k)
		}
		dst[k] = d
	}
	return nil
}

func (c *Catalogs) checkRefs() error {
	costOK := func(owner string, cost Cost) error {
		for k := range cost {
			if _, ok := c.resources[k]; !ok {
				return fmt.Errorf("catalog: %s references unknown resource %q", owner, k)
			}
		}
		return nil
	}
	ageOK := func(owner, age string) error {
		if age == "" {
			return nil
		}
		if _, ok := c.ages[age]; !ok {
			return fmt.Errorf("catalog: %s references unknown age %q", owner, age)
		}
		return nil
	}
	buildingsOK := func(owner string, ids []string) error {
		for _, id := range ids {
			if _, ok := c.buildings[id]; !ok {
				return fmt.Errorf("catalog: %s references unknown building %q", owner, id)
			}
		}
		return nil
	}
	researchOK := func(owner string, ids []string) error {
		for _, id := range ids {
			if _, ok := c.research[id]; !ok {
				return fmt.Errorf("catalog: %s references unknown research %q", owner, id)
			}
		}
		return nil
	}

	for _, a := range c.ages {
		owner := "age " + a.ID
		if err := costOK(owner, a.Cost); err != nil {
			return err
		}
		if err := buildingsOK(owner, a.RequiredBuildings); err != nil {
			return err
		}
	}
	for _, b := range c.buildings {
		owner := "building " + b.ID
		if err := costOK(owner, b.Cost); err != nil {
			return err
		}
		if err := ageOK(owner, b.Age); err != nil {
			return err
		}
		if err := buildingsOK(owner, b.RequiredBuildings); err != nil {
			return err
		}
		if err := researchOK(owner, b.RequiredResearch); err != nil {
			return err
		}
		if b.UpgradesTo != "" {
			if err := buildingsOK(owner, []string{b.UpgradesTo}); err != nil {
				return err
			}
		}
		for _, u := range b.Trains {
			if _, ok := c.units[u]; !ok {
				return fmt.Errorf("catalog: %s trains unknown unit %q", owner, u)
			}
		}
	}
	for _, u := range c.units {
		owner := "unit " + u.ID
		if u.Kind != UnitVillager && u.Kind != UnitMilitary {
			return fmt.Errorf("catalog: %s has invalid kind %q", owner, u.Kind)
		}
		if err := costOK(owner, u.Cost); err != nil {
			return err
		}
		if err := ageOK(owner, u.Age); err != nil {
			return err
		}
		if err := researchOK(owner, u.RequiredResearch); err != nil {
			return err
		}
	}
	for _, r := range c.research {
		owner := "research " + r.ID
		if err := costOK(owner, r.Cost); err != nil {
			return err
		}
		if err := ageOK(owner, r.Age); err != nil {
			return err
		}
		if err := buildingsOK(owner, r.RequiredBuildings); err != nil {
			return err
		}
		if err := researchOK(owner, r.RequiredResearch); err != nil {
			return err
		}
		if r.GatherBonus != nil {
			if err := costOK(owner, Cost{r.GatherBonus.Resource: 0}); err != nil {
				return err
			}
		}
	}
	for _, it := range c.items {
		if err := costOK("item "+it.ID, it.Effect.Grant); err != nil {
			return err
		}
	}
	for _, e := range c.events {
		owner := "event " + e.ID
		for _, ch := range e.Choices {
			if err := costOK(owner, ch.Cost); err != nil {
				return err
			}
			for _, eff := range []*Effects{ch.SuccessEffects, ch.FailureEffects} {
				if eff == nil {
					continue
				}
				if err := costOK(owner, eff.Cost); err != nil {
					return err
				}
				for _, rw := range eff.Rewards {
					if err := c.checkReward(owner, rw); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (c *Catalogs) checkReward(owner string, rw Reward) error {
	switch rw.Type {
	case RewardResource:
		if _, ok := c.resources[rw.Resource]; !ok {
			return fmt.Errorf("catalog: %s rewards unknown resource %q", owner, rw.Resource)
		}
		if rw.Amount == nil && len(rw.Range) != 2 {
			return fmt.Errorf("catalog: %s resource reward needs amount or [min,max] range", owner)
		}
		if len(rw.Range) == 2 && rw.Range[0] > rw.Range[1] {
			return fmt.Errorf("catalog: %s reward range min > max", owner)
		}
		if (rw.Amount != nil && *rw.Amount < 0) || (len(rw.Range) == 2 && rw.Range[0] < 0) {
			return fmt.Errorf("catalog: %s resource reward must not be negative", owner)
		}
	case RewardItem:
		if _, ok := c.items[rw.ItemID]; !ok {
			return fmt.Errorf("catalog: %s rewards unknown item %q", owner, rw.ItemID)
		}
	default:
		return fmt.Errorf("catalog: %s has unknown reward type %q", owner, rw.Type)
	}
	return nil
}

func (c *Catalogs) Resource(kind resource.Kind) (*ResourceDef, bool) {
	d, ok := c.resources[kind]
	return d, ok
}

func (c *Catalogs) Age(id string) (*AgeDef, bool) {
	d, ok := c.ages[id]
	return d, ok
}

func (c *Catalogs) Building(id string) (*BuildingDef, bool) {
	d, ok := c.buildings[id]
	return d, ok
}

func (c *Catalogs) Unit(id string) (*UnitDef, bool) {
	d, ok := c.units[id]
	return d, ok
}

func (c *Catalogs) Research(id string) (*ResearchDef, bool) {
	d, ok := c.research[id]
	return d, ok
}

func (c *Catalogs) Item(id string) (*ItemDef, bool) {
	d, ok := c.items[id]
	return d, ok
}

func (c *Catalogs) Event(id string) (*EventDef, bool) {
	d, ok := c.events[id]
	return d, ok
}

// FirstAge 新开局所处的时代。
func (c *Catalogs) FirstAge() *AgeDef {
	return c.ageOrder[0]
}

// NextAge 返回当前时代的下一个时代；已经是最后一个则返回 false。
func (c *Catalogs) NextAge(current string) (*AgeDef, bool) {
	for i, a := range c.ageOrder {
		if a.ID == current && i+1 < len(c.ageOrder) {
			return c.ageOrder[i+1], true
		}
	}
	return nil, false
}

// AgeRank 时代的先后次序（0 起），未知时代返回 -1。
func (c *Catalogs) AgeRank(id string) int {
	for i, a := range c.ageOrder {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// ReachedAge 判断 current 是否已经达到 required（空 required 视为满足）。
func (c *Catalogs) ReachedAge(current, required string) bool {
	if required == "" {
		return true
	}
	return c.AgeRank(current) >= c.AgeRank(required) && c.AgeRank(required) >= 0
}

// GatherRate 每个工人每秒的基础采集速度。
func (c *Catalogs) GatherRate(kind resource.Kind) float64 {
	if d, ok := c.resources[kind]; ok {
		return d.BaseGatherRate
	}
	return 0
}

// Digest 是目录内容的 sha256，用于存档与目录版本比对。
func (c *Catalogs) Digest() string {
	return c.digest
}

// 以下按 order 排序，供展示使用。

func (c *Catalogs) Resources() []ResourceDef {
	return sortedCopy(c.set.Resources, func(d ResourceDef) int { return d.Order })
}

func (c *Catalogs) Ages() []AgeDef {
	return sortedCopy(c.set.Ages, func(d AgeDef) int { return d.Order })
}

func (c *Catalogs) Buildings() []BuildingDef {
	return sortedCopy(c.set.Buildings, func(d BuildingDef) int { return d.Order })
}

func (c *Catalogs) Units() []UnitDef {
	return sortedCopy(c.set.Units, func(d UnitDef) int { return d.Order })
}

func (c *Catalogs) ResearchList() []ResearchDef {
	return sortedCopy(c.set.Research, func(d ResearchDef) int { return d.Order })
}

func (c *Catalogs) Items() []ItemDef {
	return append([]ItemDef(nil), c.set.Items...)
}

func (c *Catalogs) Events() []EventDef {
	return append([]EventDef(nil), c.set.Events...)
}

func sortedCopy[T any](in []T, order func(T) int) []T {
	out := append([]T(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}
