package action

import (
	"fmt"

	"Dawnforge/internal/game/event"
	"Dawnforge/internal/game/inventory"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resolve"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
)

type ChoicePayload struct {
	EventID     string `json:"eventId"`
	ChoiceIndex int    `json:"choiceIndex"`
}

func processChoice(env *Env, s *model.GameState, p ChoicePayload) (*model.Result, error) {
	ev, ok := env.Catalogs.Event(p.EventID)
	if !ok {
		return nil, model.InvalidTarget("unknown event %q", p.EventID)
	}
	if p.ChoiceIndex < 0 || p.ChoiceIndex >= len(ev.Choices) {
		return nil, model.InvalidTarget("event %q has no choice %d", ev.ID, p.ChoiceIndex)
	}
	engine := env.Events
	if engine == nil {
		engine = event.New(env.Catalogs)
	}
	out, err := engine.Resolve(s, ev.Choices[p.ChoiceIndex], env.Unlimited)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

type GatherPayload struct {
	NodeID    string   `json:"nodeId"`
	WorkerIDs []string `json:"workerIds"`
}

// gather 给资源点派村民。每个资源点只有一个采集任务，新派的村民并入已有任务。
func gather(env *Env, s *model.GameState, p GatherPayload) (*model.Result, error) {
	node, ok := s.Node(p.NodeID)
	if !ok {
		return nil, model.InvalidTarget("resource node %q not found", p.NodeID)
	}
	if len(p.WorkerIDs) == 0 {
		return nil, model.InvalidTarget("no villagers selected")
	}
	var fresh []string
	seen := make(map[string]bool, len(p.WorkerIDs))
	for _, id := range p.WorkerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.Villager(id); !ok {
			return nil, model.InvalidTarget("villager %q not found", id)
		}
		if at, ok := s.NodeOfWorker(id); ok {
			if at.ID == node.ID {
				continue
			}
			return nil, model.Conflict("villager %q is already gathering elsewhere", id)
		}
		fresh = append(fresh, id)
	}
	if len(fresh) == 0 {
		return nil, model.Conflict("selected villagers are already gathering here")
	}
	if node.Amount <= 0 {
		return nil, model.RuleViolation("the %s node is depleted", node.Kind)
	}

	res := &model.Result{}
	// 换人之前按旧人数结清
	node, got := resolve.Collect(s, env.Catalogs, node, env.Now)
	if got > 0 {
		res.ResourceDeltas = resource.Ledger{node.Kind: got}
	}
	node.AssignedWorkerIDs = append(append([]string(nil), node.AssignedWorkerIDs...), fresh...)
	res.UpdatedNodes = []model.ResourceNode{node}

	existing, found := gatherTaskOf(s, node.ID)
	if found {
		existing.Payload.WorkerIDs = append([]string(nil), node.AssignedWorkerIDs...)
		res.UpdatedTasks = []task.Task{existing}
	} else {
		res.NewTasks = []task.Task{{
			ID:        s.Scheduler().UniqueID(env.Now, task.KindGather, node.ID),
			Kind:      task.KindGather,
			StartTime: env.Now,
			Payload:   task.Payload{NodeID: node.ID, WorkerIDs: append([]string(nil), node.AssignedWorkerIDs...)},
		}}
	}
	res.Log = fmt.Sprintf("%d villager(s) sent to gather %s.", len(fresh), node.Kind)
	res.ActivityStatus = "Gathering " + string(node.Kind)
	return res, nil
}

func gatherTaskOf(s *model.GameState, nodeID string) (task.Task, bool) {
	for _, t := range s.Scheduler().OfKind(task.KindGather) {
		if t.Payload.NodeID == nodeID {
			return t, true
		}
	}
	return task.Task{}, false
}

type UseItemPayload struct {
	ItemID string `json:"itemId"`
}

// useItem 不可用的道具直接拒绝，而不仅仅是界面上置灰。
func useItem(env *Env, s *model.GameState, p UseItemPayload) (*model.Result, error) {
	item, ok := s.Item(p.ItemID)
	if !ok {
		return nil, model.InvalidTarget("item %q not in inventory", p.ItemID)
	}
	def, ok := env.Catalogs.Item(item.DefinitionID)
	if !ok {
		return nil, model.InvalidTarget("unknown item definition %q", item.DefinitionID)
	}
	return inventory.Apply(s, item, def, env.Now)
}

type CancelPayload struct {
	TaskID string `json:"taskId"`
}

// cancelTask 取消任务，效果作废且不退款。采集任务先结清已采集的量再释放村民。
func cancelTask(env *Env, s *model.GameState, p CancelPayload) (*model.Result, error) {
	t, ok := s.Scheduler().Find(p.TaskID)
	if !ok {
		return nil, model.InvalidTarget("task %q not found", p.TaskID)
	}
	if t.Kind == task.KindGather {
		res := resolve.EndGather(s, env.Catalogs, t, env.Now)
		res.Log = "Gathering stopped."
		return res, nil
	}
	return &model.Result{
		RemovedTaskIDs: []string{t.ID},
		Log:            fmt.Sprintf("Cancelled %s.", t.Kind),
	}, nil
}
