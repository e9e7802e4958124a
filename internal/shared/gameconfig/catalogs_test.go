package gameconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Dawnforge/internal/game/resource"
)

func TestLoadDefault_默认目录可加载(t *testing.T) {
	c := LoadDefault()

	tc, ok := c.Building("town_center")
	if !ok || !tc.Core || !tc.Unique {
		t.Fatalf("期望 town_center 为唯一核心建筑，got=%+v", tc)
	}
	if c.FirstAge().ID != "dark_age" {
		t.Fatalf("期望首个时代为 dark_age，got=%s", c.FirstAge().ID)
	}
	next, ok := c.NextAge("dark_age")
	if !ok || next.ID != "feudal_age" {
		t.Fatalf("期望下一个时代为 feudal_age，got=%v", next)
	}
	if _, ok := c.NextAge("castle_age"); ok {
		t.Fatalf("期望最后一个时代没有下一个")
	}
	if c.GatherRate(resource.Food) <= 0 {
		t.Fatalf("期望 food 有采集速度")
	}
	if c.Digest() == "" {
		t.Fatalf("期望生成目录摘要")
	}
}

func TestBuildings_按order排序(t *testing.T) {
	c := LoadDefault()
	list := c.Buildings()
	for i := 1; i < len(list); i++ {
		if list[i-1].Order > list[i].Order {
			t.Fatalf("期望按 order 升序，%s(%d) 在 %s(%d) 之前", list[i-1].ID, list[i-1].Order, list[i].ID, list[i].Order)
		}
	}
}

func TestReachedAge(t *testing.T) {
	c := LoadDefault()
	if !c.ReachedAge("feudal_age", "") {
		t.Fatalf("期望空要求总是满足")
	}
	if !c.ReachedAge("castle_age", "feudal_age") {
		t.Fatalf("期望 castle_age 已达到 feudal_age")
	}
	if c.ReachedAge("dark_age", "feudal_age") {
		t.Fatalf("期望 dark_age 未达到 feudal_age")
	}
}

func TestLoad_yaml目录与缺省可选文件(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("resources.yaml", "list:\n  - {id: food, name: Food, order: 1, baseGatherRate: 1}\n")
	write("ages.yml", "list:\n  - {id: stone_age, name: Stone Age, order: 1}\n")
	write("buildings.json", `{"list":[{"id":"hut","name":"Hut","order":1,"cost":{"food":5},"buildTime":1,"housing":2}]}`)
	write("units.json", `{"list":[{"id":"v","name":"V","order":1,"kind":"villager","cost":{"food":1},"trainTime":1,"populationCost":1}]}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if _, ok := c.Building("hut"); !ok {
		t.Fatalf("期望加载到 hut")
	}
	if len(c.Events()) != 0 {
		t.Fatalf("期望缺省 events 为空")
	}
}

func TestLoad_Schema校验失败(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "resources.json"), []byte(`{"list":[{"id":"food","name":"Food","order":1,"baseGatherRate":-1}]}`), 0o644)
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "resources") {
		t.Fatalf("期望 resources schema 校验失败，got=%v", err)
	}
}

func TestNew_引用不存在的建筑(t *testing.T) {
	_, err := New(Set{
		Resources: []ResourceDef{{ID: resource.Wood, Name: "Wood"}},
		Ages:      []AgeDef{{ID: "a1", Name: "A1"}},
		Buildings: []BuildingDef{{ID: "b1", Name: "B1", RequiredBuildings: []string{"nope"}}},
	})
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("期望报告未知建筑引用，got=%v", err)
	}
}

func TestNew_重复id(t *testing.T) {
	_, err := New(Set{
		Resources: []ResourceDef{{ID: resource.Wood}, {ID: resource.Wood}},
		Ages:      []AgeDef{{ID: "a1"}},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("期望报告重复 id，got=%v", err)
	}
}

func TestCanTrain(t *testing.T) {
	c := LoadDefault()
	b, _ := c.Building("barracks")
	if !b.CanTrain("militia") || b.CanTrain("villager") {
		t.Fatalf("期望 barracks 只训练军队")
	}
}

func TestNew_资源奖励不能为负(t *testing.T) {
	loss := -80
	_, err := New(Set{
		Resources: []ResourceDef{{ID: resource.Food, Name: "Food"}},
		Ages:      []AgeDef{{ID: "a1", Name: "A1"}},
		Events: []EventDef{{ID: "blight", Title: "Blight", Choices: []Choice{{
			Text:           "Wait it out",
			SuccessEffects: &Effects{Rewards: []Reward{{Type: RewardResource, Resource: resource.Food, Amount: &loss}}},
		}}}},
	})
	if err == nil || !strings.Contains(err.Error(), "negative") {
		t.Fatalf("期望拒绝负数奖励，got=%v", err)
	}
}

func TestLoad_负数奖励过不了schema(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "resources.json"), []byte(`{"list":[{"id":"food","name":"Food","order":1,"baseGatherRate":1}]}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "ages.json"), []byte(`{"list":[{"id":"a1","name":"A1","order":1}]}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "events.json"), []byte(`{"list":[{"id":"blight","title":"Blight","description":"","choices":[{"text":"Wait","successEffects":{"rewards":[{"type":"resource","resource":"food","amount":-80}],"log":""}}]}]}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "buildings.json"), []byte(`{"list":[{"id":"hut","name":"Hut","order":1,"cost":{"food":5},"buildTime":1,"housing":2}]}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "units.json"), []byte(`{"list":[{"id":"v","name":"V","order":1,"kind":"villager","cost":{"food":1},"trainTime":1,"populationCost":1}]}`), 0o644)
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "events") {
		t.Fatalf("期望 events schema 拒绝负数 amount，got=%v", err)
	}
}
