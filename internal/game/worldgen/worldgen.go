// Package worldgen 为新开局摆放资源点。每种资源一层噪声，取噪声最高的格子。
package worldgen

import (
	"fmt"
	"math"
	"sort"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"

	opensimplex "github.com/ojrac/opensimplex-go"
)

type Config struct {
	Radius       int   `yaml:"radius" mapstructure:"radius"`               // 地图半径（格）
	Seed         int64 `yaml:"seed" mapstructure:"seed"`                   // 0 表示由调用方决定
	NodesPerKind int   `yaml:"nodes_per_kind" mapstructure:"nodes_per_kind"` // 每种资源的资源点数
	BaseAmount   int   `yaml:"base_amount" mapstructure:"base_amount"`     // 资源点平均储量
	ClearRadius  int   `yaml:"clear_radius" mapstructure:"clear_radius"`   // 城镇中心周围留空
}

func DefaultConfig() Config {
	return Config{Radius: 12, NodesPerKind: 3, BaseAmount: 400, ClearRadius: 2}
}

type candidate struct {
	pos   model.Position
	value float64
}

// Generate 对同一 seed 结果确定。kinds 的顺序决定噪声层，也决定占格的先后。
func Generate(cfg Config, kinds []resource.Kind) []model.ResourceNode {
	if cfg.Radius <= 0 || cfg.NodesPerKind <= 0 {
		return nil
	}
	taken := map[model.Position]bool{}
	var nodes []model.ResourceNode
	for i, kind := range kinds {
		noise := opensimplex.NewNormalized(cfg.Seed + int64(i))
		var cands []candidate
		for x := -cfg.Radius; x <= cfg.Radius; x++ {
			for y := -cfg.Radius; y <= cfg.Radius; y++ {
				if abs(x) <= cfg.ClearRadius && abs(y) <= cfg.ClearRadius {
					continue
				}
				p := model.Position{X: x, Y: y}
				cands = append(cands, candidate{pos: p, value: octave(noise, float64(x), float64(y))})
			}
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].value != cands[b].value {
				return cands[a].value > cands[b].value
			}
			if cands[a].pos.X != cands[b].pos.X {
				return cands[a].pos.X < cands[b].pos.X
			}
			return cands[a].pos.Y < cands[b].pos.Y
		})

		placed := 0
		for _, c := range cands {
			if placed == cfg.NodesPerKind {
				break
			}
			if taken[c.pos] {
				continue
			}
			taken[c.pos] = true
			placed++
			nodes = append(nodes, model.ResourceNode{
				ID:       fmt.Sprintf("node-%s-%d", kind, placed),
				Kind:     kind,
				Position: c.pos,
				Amount:   int(math.Round(float64(cfg.BaseAmount) * (0.5 + c.value))),
			})
		}
	}
	return nodes
}

func octave(n opensimplex.Noise, x, y float64) float64 {
	total, amp, maxVal, freq := 0.0, 1.0, 0.0, 0.15
	for i := 0; i < 3; i++ {
		total += n.Eval2(x*freq, y*freq) * amp
		maxVal += amp
		amp *= 0.5
		freq *= 2
	}
	return total / maxVal
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
