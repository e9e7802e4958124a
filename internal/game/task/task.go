// Package task 管理进行中的定时任务：建造、训练、研究、升时代、升级、采集。
// 任务只是带时间戳的记录，不会自己“运行”，由宿主按自己的节奏轮询。
package task

import (
	"fmt"
	"math"
)

type Kind string

const (
	KindGather          Kind = "gather"
	KindBuild           Kind = "build"
	KindTrainVillager   Kind = "train_villager"
	KindTrainMilitary   Kind = "train_military"
	KindResearch        Kind = "research"
	KindAdvanceAge      Kind = "advance_age"
	KindUpgradeBuilding Kind = "upgrade_building"
)

// Position 是地图格坐标。
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Payload 携带各类任务自己的引用，按 Kind 取用对应字段。
type Payload struct {
	BuildingID   string    `json:"buildingId,omitempty"`
	BuildingType string    `json:"buildingType,omitempty"`
	Position     *Position `json:"position,omitempty"`
	UnitType     string    `json:"unitType,omitempty"`
	Count        int       `json:"count,omitempty"`
	ResearchID   string    `json:"researchId,omitempty"`
	AgeID        string    `json:"ageId,omitempty"`
	NodeID       string    `json:"nodeId,omitempty"`
	WorkerIDs    []string  `json:"workerIds,omitempty"`
}

// Task 的时间单位都是毫秒。
type Task struct {
	ID        string  `json:"id"`
	Kind      Kind    `json:"kind"`
	StartTime int64   `json:"startTime"`
	Duration  int64   `json:"duration"`
	Payload   Payload `json:"payload"`
}

// Deadline 是任务到期时刻。
func (t Task) Deadline() int64 {
	return t.StartTime + t.Duration
}

// Due 采集任务没有期限，永远不会按时间到期。
func (t Task) Due(now int64) bool {
	if t.Kind == KindGather {
		return false
	}
	return now >= t.Deadline()
}

// Owner 返回任务占用的建筑实例 id（没有则为空）。
func (t Task) Owner() string {
	return t.Payload.BuildingID
}

// Progress = clamp((now-start)/duration, 0, 1)。采集任务没有进度，固定为 0。
func Progress(t Task, now int64) float64 {
	if t.Kind == KindGather {
		return 0
	}
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now-t.StartTime) / float64(t.Duration)
	return math.Max(0, math.Min(1, p))
}

// NewID 生成 `${timestamp}-${kind}-${discriminator}` 形式的任务 id。
func NewID(now int64, kind Kind, discriminator string) string {
	return fmt.Sprintf("%d-%s-%s", now, kind, discriminator)
}

// Clone 深拷贝任务列表（payload 里的切片和指针也会复制）。
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t
		if t.Payload.WorkerIDs != nil {
			out[i].Payload.WorkerIDs = append([]string(nil), t.Payload.WorkerIDs...)
		}
		if t.Payload.Position != nil {
			p := *t.Payload.Position
			out[i].Payload.Position = &p
		}
	}
	return out
}
