package state

import "testing"

func TestKeyDeterministic(t *testing.T) {
	s := State{
		ObjectiveHash: "abc",
		CandidateHash: "def",
		Features:      map[string]string{"len": "3", "filter": "1", "agg": "0"},
	}
	k1 := s.Key()
	for i := 0; i < 20; i++ {
		if k2 := s.Key(); k2 != k1 {
			t.Fatalf("key unstable: %s != %s", k1, k2)
		}
	}
	if k1 != "abc:def|agg=0|filter=1|len=3" {
		t.Fatalf("unexpected key layout: %s", k1)
	}
}

func TestKeyExcludesIteration(t *testing.T) {
	a := State{ObjectiveHash: "o", CandidateHash: "c", Iteration: 1}
	b := State{ObjectiveHash: "o", CandidateHash: "c", Iteration: 7}
	if a.Key() != b.Key() {
		t.Fatal("iteration must not affect the key")
	}
}

func TestKeySeparatesStates(t *testing.T) {
	a := State{ObjectiveHash: "o", CandidateHash: "c", Features: map[string]string{"f": "1"}}
	b := State{ObjectiveHash: "o", CandidateHash: "c", Features: map[string]string{"f": "0"}}
	if a.Key() == b.Key() {
		t.Fatal("different features should produce different keys")
	}

	c := State{ObjectiveHash: "o2", CandidateHash: "c", Features: map[string]string{"f": "1"}}
	if a.Key() == c.Key() {
		t.Fatal("different objectives should produce different keys")
	}
}

func TestLengthBucket(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{31, "0"},
		{32, "1"},
		{63, "1"},
		{64, "2"},
		{128, "3"},
		{1 << 20, "9"}, // capped
	}
	for _, c := range cases {
		if got := LengthBucket(c.n); got != c.want {
			t.Fatalf("LengthBucket(%d) = %s, want %s", c.n, got, c.want)
		}
	}
}

func TestCountBucket(t *testing.T) {
	if CountBucket(-3) != "0" {
		t.Fatal("negative counts should clamp to 0")
	}
	if CountBucket(4) != "4" {
		t.Fatal("small counts pass through")
	}
	if CountBucket(42) != "9" {
		t.Fatal("large counts should cap at 9")
	}
}

func TestFlag(t *testing.T) {
	if Flag(true) != "1" || Flag(false) != "0" {
		t.Fatal("flag encoding mismatch")
	}
}
