package model

import (
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// Capacity 是已建成住房提供的人口上限。excludeID 非空时不计该建筑（拆除前试算用）。
func Capacity(s *GameState, cat *gameconfig.Catalogs, excludeID string) int {
	total := 0
	for typ, list := range s.Buildings {
		def, ok := cat.Building(typ)
		if !ok {
			continue
		}
		for _, b := range list {
			if b.ID == excludeID {
				continue
			}
			total += def.Housing
		}
	}
	return total
}

// ReservedPopulation 是训练中的批次已经占下的人口。
func ReservedPopulation(s *GameState, cat *gameconfig.Catalogs) int {
	total := 0
	for _, t := range s.Tasks {
		if t.Kind != task.KindTrainVillager && t.Kind != task.KindTrainMilitary {
			continue
		}
		def, ok := cat.Unit(t.Payload.UnitType)
		if !ok {
			continue
		}
		total += t.Payload.Count * def.PopulationCost
	}
	return total
}
