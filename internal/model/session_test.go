package model

import "testing"

func TestSumTokens_Pointwise(t *testing.T) {
	a := NewTokenUsage(100, 50, 10, 200, 30)
	b := NewTokenUsage(1, 2, 3, 4, 5)

	got := SumTokens(a, b)

	if got.Input != 101 || got.Output != 52 || got.Reasoning != 13 ||
		got.CacheRead != 204 || got.CacheWrite != 35 {
		t.Errorf("SumTokens buckets = %+v", got)
	}
	wantTotal := got.Input + got.Output + got.Reasoning + got.CacheRead + got.CacheWrite
	if got.Total != wantTotal {
		t.Errorf("Total = %d, want field sum %d", got.Total, wantTotal)
	}
}

func TestSumTokens_AssociativeCommutative(t *testing.T) {
	a := NewTokenUsage(1, 2, 3, 4, 5)
	b := NewTokenUsage(10, 20, 30, 40, 50)
	c := NewTokenUsage(7, 0, 0, 9, 0)

	left := SumTokens(SumTokens(a, b), c)
	right := SumTokens(a, SumTokens(b, c))
	if left != right {
		t.Errorf("associativity: %+v != %+v", left, right)
	}

	ab := SumTokens(a, b)
	ba := SumTokens(b, a)
	if ab != ba {
		t.Errorf("commutativity: %+v != %+v", ab, ba)
	}
}

func TestSumTokens_NoOperands(t *testing.T) {
	if got := SumTokens(); got != (TokenUsage{}) {
		t.Errorf("SumTokens() = %+v, want zero usage", got)
	}
}

func TestNewTokenUsage_Total(t *testing.T) {
	u := NewTokenUsage(10, 20, 5, 100, 7)
	if u.Total != 142 {
		t.Errorf("Total = %d, want 142", u.Total)
	}
}
