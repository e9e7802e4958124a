// Package gametest 提供核心测试用的目录与状态夹具，数值与默认数据保持一致但不读文件。
package gametest

import (
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/shared/gameconfig"
)

func ptr[T any](v T) *T { return &v }

// Set 返回一份完整的小目录。
func Set() gameconfig.Set {
	return gameconfig.Set{
		Resources: []gameconfig.ResourceDef{
			{ID: resource.Food, Name: "Food", Order: 1, BaseGatherRate: 0.5},
			{ID: resource.Wood, Name: "Wood", Order: 2, BaseGatherRate: 0.5},
			{ID: resource.Gold, Name: "Gold", Order: 3, BaseGatherRate: 0.3},
			{ID: resource.Stone, Name: "Stone", Order: 4, BaseGatherRate: 0.3},
		},
		Ages: []gameconfig.AgeDef{
			{ID: "dark_age", Name: "Dark Age", Order: 1},
			{ID: "feudal_age", Name: "Feudal Age", Order: 2, Cost: gameconfig.Cost{resource.Food: 500}, AdvanceTime: 130, RequiredBuildings: []string{"barracks"}},
			{ID: "castle_age", Name: "Castle Age", Order: 3, Cost: gameconfig.Cost{resource.Food: 800, resource.Gold: 200}, AdvanceTime: 160, RequiredBuildings: []string{"blacksmith"}},
		},
		Buildings: []gameconfig.BuildingDef{
			{ID: "town_center", Name: "Town Center", Order: 1, Cost: gameconfig.Cost{resource.Wood: 275, resource.Stone: 100}, BuildTime: 150, Unique: true, Core: true, Housing: 5, HP: 2400, Trains: []string{"villager"}},
			{ID: "house", Name: "House", Order: 2, Cost: gameconfig.Cost{resource.Wood: 50}, BuildTime: 25, Housing: 5, HP: 550},
			{ID: "barracks", Name: "Barracks", Order: 3, Cost: gameconfig.Cost{resource.Wood: 175}, BuildTime: 50, Unique: true, HP: 1200, Trains: []string{"militia", "spearman"}},
			{ID: "lumber_camp", Name: "Lumber Camp", Order: 4, Cost: gameconfig.Cost{resource.Wood: 100}, BuildTime: 35, HP: 1000},
			{ID: "blacksmith", Name: "Blacksmith", Order: 5, Cost: gameconfig.Cost{resource.Wood: 150}, BuildTime: 40, Unique: true, HP: 1200, Age: "feudal_age"},
			{ID: "archery_range", Name: "Archery Range", Order: 6, Cost: gameconfig.Cost{resource.Wood: 175}, BuildTime: 50, Unique: true, HP: 1200, Age: "feudal_age", RequiredBuildings: []string{"barracks"}, Trains: []string{"archer"}},
			{ID: "watch_tower", Name: "Watch Tower", Order: 7, Cost: gameconfig.Cost{resource.Wood: 25, resource.Stone: 125}, BuildTime: 80, HP: 700, UpgradesTo: "guard_tower"},
			{ID: "guard_tower", Name: "Guard Tower", Order: 8, Cost: gameconfig.Cost{resource.Food: 100, resource.Wood: 250}, BuildTime: 30, HP: 1500, Age: "castle_age"},
		},
		Units: []gameconfig.UnitDef{
			{ID: "villager", Name: "Villager", Order: 1, Kind: gameconfig.UnitVillager, Cost: gameconfig.Cost{resource.Food: 50}, TrainTime: 25, PopulationCost: 1},
			{ID: "militia", Name: "Militia", Order: 2, Kind: gameconfig.UnitMilitary, Title: "Footman", Cost: gameconfig.Cost{resource.Food: 60, resource.Gold: 20}, TrainTime: 21, PopulationCost: 1},
			{ID: "spearman", Name: "Spearman", Order: 3, Kind: gameconfig.UnitMilitary, Title: "Pikeman", Cost: gameconfig.Cost{resource.Food: 35, resource.Wood: 25}, TrainTime: 22, PopulationCost: 1, Age: "feudal_age"},
			{ID: "archer", Name: "Archer", Order: 4, Kind: gameconfig.UnitMilitary, Title: "Bowman", Cost: gameconfig.Cost{resource.Wood: 25, resource.Gold: 45}, TrainTime: 35, PopulationCost: 1, Age: "feudal_age", RequiredResearch: []string{"fletching"}},
		},
		Research: []gameconfig.ResearchDef{
			{ID: "loom", Name: "Loom", Order: 1, Cost: gameconfig.Cost{resource.Gold: 50}, ResearchTime: 25, RequiredBuildings: []string{"town_center"}},
			{ID: "double_bit_axe", Name: "Double-Bit Axe", Order: 2, Cost: gameconfig.Cost{resource.Food: 100, resource.Wood: 50}, ResearchTime: 25, RequiredBuildings: []string{"lumber_camp"}, GatherBonus: &gameconfig.GatherBonus{Resource: resource.Wood, Percent: 20}},
			{ID: "fletching", Name: "Fletching", Order: 3, Cost: gameconfig.Cost{resource.Food: 100, resource.Gold: 50}, ResearchTime: 30, Age: "feudal_age", RequiredBuildings: []string{"blacksmith"}},
		},
		Items: []gameconfig.ItemDef{
			{ID: "instant_build_hammer", Name: "Master Hammer", Rarity: gameconfig.RarityEpic},
			{ID: "complete_all_hourglass", Name: "Golden Hourglass", Rarity: gameconfig.RarityLegendary},
			{ID: "buff_build_time_blueprint", Name: "Architect's Blueprint", Rarity: gameconfig.RarityEpic, Effect: gameconfig.ItemEffect{Percent: 50, DurationSeconds: 300}},
			{ID: "buff_train_time_banner", Name: "War Banner", Rarity: gameconfig.RarityEpic, Effect: gameconfig.ItemEffect{Percent: 30, DurationSeconds: 300}},
			{ID: "resource_food_cache", Name: "Food Cache", Rarity: gameconfig.RarityCommon, Effect: gameconfig.ItemEffect{Grant: gameconfig.Cost{resource.Food: 200}}},
			{ID: "resource_ancestral_relic", Name: "Ancestral Relic", Rarity: gameconfig.RaritySpiritual, Effect: gameconfig.ItemEffect{Grant: gameconfig.Cost{resource.Gold: 100}}},
			{ID: "mystery_box", Name: "Mystery Box", Rarity: gameconfig.RarityCommon},
		},
		Events: []gameconfig.EventDef{
			{
				ID: "wandering_merchant", Title: "A Wandering Merchant",
				Choices: []gameconfig.Choice{
					{
						Text:          "Buy the timber",
						Cost:          gameconfig.Cost{resource.Gold: 40},
						SuccessChance: ptr(0.7),
						SuccessEffects: &gameconfig.Effects{
							Log:     "The timber is sound.",
							Rewards: []gameconfig.Reward{{Type: gameconfig.RewardResource, Resource: resource.Wood, Range: []int{100, 150}}},
						},
						FailureEffects: &gameconfig.Effects{Log: "The timber was rotten."},
					},
					{Text: "Send him away"},
				},
			},
			{
				ID: "bandit_raid", Title: "Bandits at the Gate",
				Choices: []gameconfig.Choice{
					{
						Text:          "Fight them off",
						SuccessChance: ptr(0.5),
						SuccessEffects: &gameconfig.Effects{
							Log: "The raiders flee and leave loot behind.",
							Rewards: []gameconfig.Reward{
								{Type: gameconfig.RewardResource, Resource: resource.Gold, Amount: ptr(30)},
								{Type: gameconfig.RewardItem, ItemID: "resource_food_cache", Count: 2},
							},
						},
						FailureEffects: &gameconfig.Effects{Log: "The bandits steal grain.", Cost: gameconfig.Cost{resource.Food: 50}},
					},
				},
			},
		},
	}
}

// Catalogs 由 Set 构建，数据有误直接 panic。
func Catalogs() *gameconfig.Catalogs {
	return gameconfig.MustNew(Set())
}
