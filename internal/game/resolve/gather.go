package resolve

import (
	"fmt"
	"math"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// GatherRate 每个工人每秒的采集量，含已完成研究的加成。
func GatherRate(s *model.GameState, cat *gameconfig.Catalogs, kind resource.Kind) float64 {
	pct := 0
	for _, id := range s.CompletedResearch {
		def, ok := cat.Research(id)
		if ok && def.GatherBonus != nil && def.GatherBonus.Resource == kind {
			pct += def.GatherBonus.Percent
		}
	}
	return cat.GatherRate(kind) * (1 + float64(pct)/100)
}

// Collect 结清资源点从 LastCollectedAt 到 now 的采集量。
// 不足 1 的部分记在 Carry 上，下次继续累计。返回更新后的资源点和本次入账的数量。
func Collect(s *model.GameState, cat *gameconfig.Catalogs, n model.ResourceNode, now int64) (model.ResourceNode, int) {
	workers := len(n.AssignedWorkerIDs)
	elapsed := now - n.LastCollectedAt
	if workers == 0 || elapsed <= 0 || n.Amount <= 0 {
		n.LastCollectedAt = max(n.LastCollectedAt, now)
		return n, 0
	}
	raw := float64(workers)*GatherRate(s, cat, n.Kind)*float64(elapsed)/1000 + n.Carry
	whole := int(math.Floor(raw))
	n.LastCollectedAt = now
	if whole >= n.Amount {
		got := n.Amount
		n.Amount = 0
		n.Carry = 0
		return n, got
	}
	n.Amount -= whole
	n.Carry = raw - float64(whole)
	return n, whole
}

// PollGather 为所有采集任务结算采集量。资源点耗尽时结束任务并释放工人。
func PollGather(s *model.GameState, cat *gameconfig.Catalogs, now int64) *model.Result {
	gathers := s.Scheduler().OfKind(task.KindGather)
	if len(gathers) == 0 {
		return nil
	}
	out := &model.Result{}
	for _, t := range gathers {
		n, ok := s.Node(t.Payload.NodeID)
		if !ok {
			out.RemovedTaskIDs = append(out.RemovedTaskIDs, t.ID)
			continue
		}
		n, got := Collect(s, cat, n, now)
		if got > 0 {
			out.ResourceDeltas = resource.Merge(out.ResourceDeltas, resource.Ledger{n.Kind: got})
		}
		if n.Amount <= 0 {
			n.AssignedWorkerIDs = nil
			out.RemovedTaskIDs = append(out.RemovedTaskIDs, t.ID)
			out.AddLog(fmt.Sprintf("The %s at (%d,%d) is depleted.", n.Kind, n.Position.X, n.Position.Y))
		}
		out.UpdatedNodes = append(out.UpdatedNodes, n)
	}
	if out.Empty() {
		return nil
	}
	return out
}

// EndGather 结清采集量、释放工人并删除采集任务。
func EndGather(s *model.GameState, cat *gameconfig.Catalogs, t task.Task, now int64) *model.Result {
	res := &model.Result{RemovedTaskIDs: []string{t.ID}}
	n, ok := s.Node(t.Payload.NodeID)
	if !ok {
		return res
	}
	n, got := Collect(s, cat, n, now)
	if got > 0 {
		res.ResourceDeltas = resource.Ledger{n.Kind: got}
	}
	n.AssignedWorkerIDs = nil
	res.UpdatedNodes = []model.ResourceNode{n}
	return res
}
