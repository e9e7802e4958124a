// Package resource 是资源账本：资源种类 -> 数量的累加器。
package resource

import (
	"math"
	"sort"
)

// Kind 资源种类。四种基础资源之外允许自定义种类。
type Kind string

const (
	Food  Kind = "food"
	Wood  Kind = "wood"
	Gold  Kind = "gold"
	Stone Kind = "stone"
)

// Ledger 是资源余额，也用来表示花费和增量（增量允许为负）。
type Ledger map[Kind]int

// CanAfford 判断 cost*multiplier 是否付得起。unlimited 为无限资源模式，直接放行。
func (l Ledger) CanAfford(cost Ledger, multiplier int, unlimited bool) bool {
	if unlimited {
		return true
	}
	for k, c := range cost {
		if l[k] < Scale(c, multiplier) {
			return false
		}
	}
	return true
}

// Missing 列出不够的资源种类，按名字排序，便于拼错误文案。
func (l Ledger) Missing(cost Ledger, multiplier int) []Kind {
	var out []Kind
	for k, c := range cost {
		if l[k] < Scale(c, multiplier) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply 把增量逐项加到余额上。不做校验，调用方必须先 CanAfford。
func (l Ledger) Apply(delta Ledger) {
	for k, d := range delta {
		l[k] += d
	}
}

// Clone 深拷贝；nil 返回空账本。
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// IsZero 所有项都是 0（或为空）。
func (l Ledger) IsZero() bool {
	for _, v := range l {
		if v != 0 {
			return false
		}
	}
	return true
}

// Cost 把花费换算成负增量。
func Cost(cost Ledger, multiplier int) Ledger {
	out := make(Ledger, len(cost))
	for k, c := range cost {
		if c == 0 {
			continue
		}
		out[k] = -Scale(c, multiplier)
	}
	return out
}

// Scale 计算 c*multiplier，溢出时截到 int 的上下界。
func Scale(c, multiplier int) int {
	if c == 0 || multiplier == 0 {
		return 0
	}
	p := c * multiplier
	if p/multiplier == c && !(c == -1 && multiplier == math.MinInt) && !(multiplier == -1 && c == math.MinInt) {
		return p
	}
	if (c > 0) == (multiplier > 0) {
		return math.MaxInt
	}
	return math.MinInt
}

// Refund 返还 percent% 的花费，向下取整。
func Refund(cost Ledger, percent int) Ledger {
	out := make(Ledger, len(cost))
	for k, c := range cost {
		if r := c * percent / 100; r > 0 {
			out[k] = r
		}
	}
	return out
}

// Merge 把多个增量合成一个，同种资源相加，相加为 0 的项会去掉。
func Merge(deltas ...Ledger) Ledger {
	out := make(Ledger)
	for _, d := range deltas {
		for k, v := range d {
			out[k] += v
		}
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return out
}

// Kinds 返回有记录的资源种类，排序后输出。
func (l Ledger) Kinds() []Kind {
	out := make([]Kind, 0, len(l))
	for k := range l {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
