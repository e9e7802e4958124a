// Package rng 把随机数抽象成可注入的接口，事件结算、命名洗牌都从这里取随机。
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source 返回 [0,1) 的浮点数。
type Source interface {
	Float64() float64
}

// Func 让普通函数满足 Source。
type Func func() float64

func (f Func) Float64() float64 { return f() }

// Seeded 是带种子的线程安全随机源。
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Fixed 永远返回同一个值。
func Fixed(v float64) Source {
	return Func(func() float64 { return v })
}

// Sequence 依次返回给定的值，用完后重复最后一个。
func Sequence(values ...float64) Source {
	if len(values) == 0 {
		return Fixed(0)
	}
	i := 0
	return Func(func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	})
}

// Intn 用 Source 取 [0,n) 的整数。
func Intn(s Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Shuffle 用 Fisher-Yates 打乱。
func Shuffle[T any](s Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := Intn(s, i+1)
		items[i], items[j] = items[j], items[i]
	}
}
