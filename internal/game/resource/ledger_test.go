package resource

import (
	"math"
	"reflect"
	"testing"
)

func TestCanAfford_按倍数判断(t *testing.T) {
	l := Ledger{Food: 100, Wood: 10}
	if !l.CanAfford(Ledger{Food: 50}, 2, false) {
		t.Fatalf("期望 100 food 买得起 2*50")
	}
	if l.CanAfford(Ledger{Food: 50}, 3, false) {
		t.Fatalf("期望 100 food 买不起 3*50")
	}
	if l.CanAfford(Ledger{Stone: 1}, 1, false) {
		t.Fatalf("期望没有记录的资源视为 0")
	}
}

func TestCanAfford_无限资源模式直接放行(t *testing.T) {
	l := Ledger{}
	if !l.CanAfford(Ledger{Gold: 9999}, 10, true) {
		t.Fatalf("期望无限资源模式下总是买得起")
	}
}

func TestMissing_排序输出(t *testing.T) {
	l := Ledger{Food: 10, Wood: 100}
	got := l.Missing(Ledger{Wood: 50, Stone: 5, Food: 20}, 1)
	want := []Kind{Food, Stone}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，got=%v", want, got)
	}
}

func TestApply_整数精确扣减(t *testing.T) {
	l := Ledger{Food: 100, Gold: 3}
	before := l.Clone()
	cost := Ledger{Food: 50}
	l.Apply(Cost(cost, 2))
	if l[Food] != before[Food]-cost[Food]*2 {
		t.Fatalf("期望 food=%d，got=%d", before[Food]-100, l[Food])
	}
	if l[Gold] != 3 {
		t.Fatalf("期望其他资源不变，got=%d", l[Gold])
	}
}

func TestRefund_向下取整(t *testing.T) {
	got := Refund(Ledger{Wood: 51, Stone: 1}, 50)
	if got[Wood] != 25 {
		t.Fatalf("期望 floor(51*50%%)=25，got=%d", got[Wood])
	}
	if _, ok := got[Stone]; ok {
		t.Fatalf("期望返还为 0 的项不出现，got=%v", got)
	}
}

func TestMerge_同种资源相抵(t *testing.T) {
	got := Merge(Ledger{Gold: -40, Wood: 10}, Ledger{Wood: 90, Gold: 40})
	want := Ledger{Wood: 100}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，got=%v", want, got)
	}
}

func TestCanAfford_倍数溢出不会变成买得起(t *testing.T) {
	l := Ledger{Food: 0}
	cost := Ledger{Food: 50}
	if l.CanAfford(cost, math.MaxInt, false) {
		t.Fatalf("期望溢出的花费仍然买不起")
	}
	if got := l.Missing(cost, math.MaxInt); !reflect.DeepEqual(got, []Kind{Food}) {
		t.Fatalf("期望缺少 food，got=%v", got)
	}
	if got := Cost(cost, math.MaxInt)[Food]; got >= 0 {
		t.Fatalf("期望花费增量仍为负，got=%d", got)
	}
	if got := Scale(3, 4); got != 12 {
		t.Fatalf("期望 12，got=%d", got)
	}
	if got := Scale(-2, math.MaxInt); got != math.MinInt {
		t.Fatalf("期望截到下界，got=%d", got)
	}
}
