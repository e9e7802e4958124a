package gameconfig

import (
	"Dawnforge/internal/game/resource"
)

// Cost 是目录里的资源花费。
type Cost = resource.Ledger

// UnitKind 区分村民与军队。
type UnitKind string

const (
	UnitVillager UnitKind = "villager"
	UnitMilitary UnitKind = "military"
)

// Rarity 只影响展示顺序，不参与玩法判断。
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RaritySpiritual Rarity = "Spiritual"
)

// RewardType 事件奖励种类。
type RewardType string

const (
	RewardResource RewardType = "resource"
	RewardItem     RewardType = "item"
)

type ResourceDef struct {
	ID             resource.Kind `json:"id"`
	Name           string        `json:"name"`
	Order          int           `json:"order"`
	BaseGatherRate float64       `json:"baseGatherRate"` // 每个工人每秒
}

type AgeDef struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Order             int      `json:"order"`
	Cost              Cost     `json:"cost"`
	AdvanceTime       int      `json:"advanceTime"` // 秒
	RequiredBuildings []string `json:"requiredBuildings"`
}

type BuildingDef struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Order             int      `json:"order"`
	Cost              Cost     `json:"cost"`
	BuildTime         int      `json:"buildTime"` // 秒
	Unique            bool     `json:"unique"`
	Core              bool     `json:"core"` // 文明核心建筑，不可拆除
	Housing           int      `json:"housing"`
	HP                int      `json:"hp"`
	Age               string   `json:"age"` // 最低时代，空表示不限
	RequiredBuildings []string `json:"requiredBuildings"`
	RequiredResearch  []string `json:"requiredResearch"`
	UpgradesTo        string   `json:"upgradesTo"`
	Trains            []string `json:"trains"`
}

// CanTrain 该建筑能否训练指定兵种。
func (b *BuildingDef) CanTrain(unitID string) bool {
	for _, u := range b.Trains {
		if u == unitID {
			return true
		}
	}
	return false
}

type UnitDef struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Order            int      `json:"order"`
	Kind             UnitKind `json:"kind"`
	Title            string   `json:"title"`
	Cost             Cost     `json:"cost"`
	TrainTime        int      `json:"trainTime"` // 秒
	PopulationCost   int      `json:"populationCost"`
	Age              string   `json:"age"`
	RequiredResearch []string `json:"requiredResearch"`
}

// GatherBonus 研究完成后对某种资源采集速度的百分比加成。
type GatherBonus struct {
	Resource resource.Kind `json:"resource"`
	Percent  int           `json:"percent"`
}

type ResearchDef struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Order             int          `json:"order"`
	Cost              Cost         `json:"cost"`
	ResearchTime      int          `json:"researchTime"` // 秒
	Age               string       `json:"age"`
	RequiredBuildings []string     `json:"requiredBuildings"`
	RequiredResearch  []string     `json:"requiredResearch"`
	GatherBonus       *GatherBonus `json:"gatherBonus,omitempty"`
}

// ItemEffect 的字段按物品 id 前缀解释：
// buff 类用 Percent + DurationSeconds，资源类用 Grant。
type ItemEffect struct {
	Percent         int  `json:"percent,omitempty"`
	DurationSeconds int  `json:"durationSeconds,omitempty"`
	Grant           Cost `json:"grant,omitempty"`
}

type ItemDef struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rarity      Rarity     `json:"rarity"`
	Effect      ItemEffect `json:"effect"`
}

type Reward struct {
	Type     RewardType    `json:"type"`
	Resource resource.Kind `json:"resource,omitempty"`
	Amount   *int          `json:"amount,omitempty"`
	Range    []int         `json:"range,omitempty"` // [min, max]，闭区间
	ItemID   string        `json:"itemId,omitempty"`
	Count    int           `json:"count,omitempty"`
}

type Effects struct {
	Rewards []Reward `json:"rewards"`
	Log     string   `json:"log"`
	Cost    Cost     `json:"cost,omitempty"` // 只在失败分支出现：走到该分支时额外扣除
}

type Choice struct {
	Text           string   `json:"text"`
	Cost           Cost     `json:"cost,omitempty"`
	SuccessChance  *float64 `json:"successChance,omitempty"`
	SuccessEffects *Effects `json:"successEffects,omitempty"`
	FailureEffects *Effects `json:"failureEffects,omitempty"`
}

type EventDef struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Choices     []Choice `json:"choices"`
}

// Set 是未建索引的原始目录数据，加载器和测试夹具都从它构建 Catalogs。
type Set struct {
	Resources []ResourceDef `json:"resources"`
	Ages      []AgeDef      `json:"ages"`
	Buildings []BuildingDef `json:"buildings"`
	Units     []UnitDef     `json:"units"`
	Research  []ResearchDef `json:"research"`
	Items     []ItemDef     `json:"items"`
	Events    []EventDef    `json:"events"`
}
