package task

import (
	"fmt"
	"sort"
	"strconv"

	"Dawnforge/modules/kit/errx"
)

// ErrDuplicateID 任务 id 冲突属于宿主违反前置约束，不是玩家可见的拒绝。
var ErrDuplicateID = errx.ErrPrecondition.WithMsg("duplicate task id")

// Scheduler 持有进行中的任务列表。它不关心任务指向哪个目标，
// “同一建筑同时只能有一个任务”由校验层保证。
type Scheduler struct {
	tasks []Task
}

// NewScheduler 接管传入的任务列表（通常来自状态快照）。
func NewScheduler(tasks []Task) *Scheduler {
	return &Scheduler{tasks: tasks}
}

// Tasks 返回当前任务列表本身，宿主据此写回状态。
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Active 返回所有进行中的任务（含采集）。
func (s *Scheduler) Active() []Task {
	return append([]Task(nil), s.tasks...)
}

func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Schedule 追加任务，id 必须唯一。
func (s *Scheduler) Schedule(t Task) error {
	if _, ok := s.Find(t.ID); ok {
		return ErrDuplicateID.WithData("task_id", t.ID)
	}
	s.tasks = append(s.tasks, t)
	return nil
}

// UniqueID 在 NewID 的基础上避开现有 id：同一毫秒重复时追加 -2、-3……
func (s *Scheduler) UniqueID(now int64, kind Kind, discriminator string) string {
	id := NewID(now, kind, discriminator)
	if _, ok := s.Find(id); !ok {
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if _, ok := s.Find(candidate); !ok {
			return candidate
		}
	}
}

// DueTasks 返回已到期的非采集任务，按到期时间（同时到期按 id）排序。
func (s *Scheduler) DueTasks(now int64) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.Due(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Deadline() != out[j].Deadline() {
			return out[i].Deadline() < out[j].Deadline()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Resolve 移除任务；同一个 id 第二次调用是空操作，返回 false。
func (s *Scheduler) Resolve(id string) (Task, bool) {
	return s.remove(id)
}

// Cancel 移除任务且不产生任何效果。
func (s *Scheduler) Cancel(id string) (Task, bool) {
	return s.remove(id)
}

func (s *Scheduler) Find(id string) (Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ByOwner 返回占用该建筑实例的任务。
func (s *Scheduler) ByOwner(buildingID string) (Task, bool) {
	if buildingID == "" {
		return Task{}, false
	}
	for _, t := range s.tasks {
		if t.Owner() == buildingID {
			return t, true
		}
	}
	return Task{}, false
}

// OfKind 返回指定种类的任务。
func (s *Scheduler) OfKind(kinds ...Kind) []Task {
	var out []Task
	for _, t := range s.tasks {
		for _, k := range kinds {
			if t.Kind == k {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func (s *Scheduler) remove(id string) (Task, bool) {
	for i, t := range s.tasks {
		if t.ID == id {
			next := make([]Task, 0, len(s.tasks)-1)
			next = append(next, s.tasks[:i]...)
			next = append(next, s.tasks[i+1:]...)
			s.tasks = next
			return t, true
		}
	}
	return Task{}, false
}

func (t Task) String() string {
	return fmt.Sprintf("%s(%s)", t.ID, t.Kind)
}
