package rng

import "testing"

func TestSequence_用完后重复最后一个(t *testing.T) {
	s := Sequence(0.5, 0.0)
	got := []float64{s.Float64(), s.Float64(), s.Float64()}
	if got[0] != 0.5 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("期望 [0.5 0 0]，got=%v", got)
	}
}

func TestIntn_边界(t *testing.T) {
	if got := Intn(Fixed(0.9999999), 3); got != 2 {
		t.Fatalf("期望 2，got=%d", got)
	}
	if got := Intn(Fixed(0.5), 0); got != 0 {
		t.Fatalf("期望 n<=0 返回 0，got=%d", got)
	}
}

func TestSeeded_同种子同序列(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 5; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("期望同种子产生同序列")
		}
	}
}
