package task

import (
	"errors"
	"testing"
)

func TestDueTasks_排除采集并按期限排序(t *testing.T) {
	s := NewScheduler(nil)
	_ = s.Schedule(Task{ID: "b", Kind: KindBuild, StartTime: 0, Duration: 2000})
	_ = s.Schedule(Task{ID: "a", Kind: KindTrainVillager, StartTime: 0, Duration: 1000})
	_ = s.Schedule(Task{ID: "g", Kind: KindGather, StartTime: 0, Duration: 0})
	_ = s.Schedule(Task{ID: "c", Kind: KindResearch, StartTime: 0, Duration: 5000})

	due := s.DueTasks(2000)
	if len(due) != 2 || due[0].ID != "a" || due[1].ID != "b" {
		t.Fatalf("期望到期 [a b]，got=%v", due)
	}
}

func TestResolve_第二次是空操作(t *testing.T) {
	s := NewScheduler(nil)
	_ = s.Schedule(Task{ID: "t1", Kind: KindBuild, Duration: 10})

	if _, ok := s.Resolve("t1"); !ok {
		t.Fatalf("期望第一次 Resolve 成功")
	}
	if _, ok := s.Resolve("t1"); ok {
		t.Fatalf("期望第二次 Resolve 返回 false")
	}
	if got := s.DueTasks(100); len(got) != 0 {
		t.Fatalf("期望 resolve 后不再出现在到期列表，got=%v", got)
	}
}

func TestSchedule_重复id是前置约束错误(t *testing.T) {
	s := NewScheduler(nil)
	_ = s.Schedule(Task{ID: "x"})
	err := s.Schedule(Task{ID: "x"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("期望 ErrDuplicateID，got=%v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("期望列表不变，got=%d", s.Len())
	}
}

func TestUniqueID_同毫秒追加序号(t *testing.T) {
	s := NewScheduler(nil)
	id1 := s.UniqueID(1000, KindBuild, "house")
	if id1 != "1000-build-house" {
		t.Fatalf("期望 1000-build-house，got=%s", id1)
	}
	_ = s.Schedule(Task{ID: id1})
	id2 := s.UniqueID(1000, KindBuild, "house")
	if id2 != "1000-build-house-2" {
		t.Fatalf("期望 1000-build-house-2，got=%s", id2)
	}
}

func TestCancel_不影响其他任务(t *testing.T) {
	s := NewScheduler([]Task{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if _, ok := s.Cancel("b"); !ok {
		t.Fatalf("期望取消成功")
	}
	got := s.Tasks()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("期望剩余 [a c]，got=%v", got)
	}
}

func TestProgress_夹在0到1之间(t *testing.T) {
	tk := Task{Kind: KindBuild, StartTime: 1000, Duration: 1000}
	cases := map[int64]float64{500: 0, 1000: 0, 1500: 0.5, 2000: 1, 9000: 1}
	for now, want := range cases {
		if got := Progress(tk, now); got != want {
			t.Fatalf("now=%d 期望 %v，got=%v", now, want, got)
		}
	}
	if got := Progress(Task{Kind: KindGather}, 100); got != 0 {
		t.Fatalf("期望采集任务进度为 0，got=%v", got)
	}
}

func TestByOwner(t *testing.T) {
	s := NewScheduler([]Task{{ID: "a", Payload: Payload{BuildingID: "b1"}}})
	if _, ok := s.ByOwner("b1"); !ok {
		t.Fatalf("期望找到 b1 的任务")
	}
	if _, ok := s.ByOwner(""); ok {
		t.Fatalf("期望空 owner 不匹配")
	}
}
