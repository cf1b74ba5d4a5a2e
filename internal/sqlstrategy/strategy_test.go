package sqlstrategy

import (
	"testing"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

func TestExtractStateIgnoresIteration(t *testing.T) {
	s := New()
	o := salesObjective()
	c := objective.Text("SELECT region FROM sales")

	a := s.ExtractState(c, o, nil, 1)
	b := s.ExtractState(c, o, nil, 5)
	if a.Key() != b.Key() {
		t.Fatal("iteration must not affect the state key")
	}
	if a.Iteration != 1 || b.Iteration != 5 {
		t.Fatal("iteration should still be recorded for traces")
	}
}

func TestExtractStateDiscretizes(t *testing.T) {
	s := New()
	o := salesObjective()

	// Same shape, slightly different text: same bucketed features.
	a := s.ExtractState(objective.Text("SELECT region, amount FROM sales"), o, nil, 0)
	b := s.ExtractState(objective.Text("SELECT amount, region FROM sales"), o, nil, 0)
	if a.Features["len"] != b.Features["len"] || a.Features["fields"] != b.Features["fields"] {
		t.Fatalf("near-identical candidates should share feature buckets: %v vs %v", a.Features, b.Features)
	}
	// Different candidate hash still separates the keys.
	if a.Key() == b.Key() {
		t.Fatal("different candidates must not collide")
	}

	empty := s.ExtractState(objective.Text("  "), o, nil, 0)
	if empty.Features["empty"] != "1" {
		t.Fatal("blank candidate should set the empty flag")
	}
}

func TestApplicableActionsGating(t *testing.T) {
	s := New()
	o := salesObjective()

	// Unfiltered candidate missing a required field, carrying a forbidden
	// field and a bare entity reference.
	c := objective.Text("SELECT region, ssn, customer FROM sales")
	got := s.ApplicableActions(c, o, 0)
	want := []action.Action{
		action.UseGenerator,
		action.AddField,
		action.RemoveField,
		action.AddFilter,
		action.FixEntityMapping,
		action.NoOp,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("enumeration order broken at %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestApplicableActionsResetGate(t *testing.T) {
	s := New()
	o := salesObjective()
	c := objective.Text("SELECT region, amount, customer_id FROM sales WHERE region = 'EMEA' AND order_date >= '2026-01-01'")

	early := s.ApplicableActions(c, o, action.MinResetIteration-1)
	for _, a := range early {
		if a == action.Reset {
			t.Fatal("reset must not be applicable before the minimum iteration")
		}
	}

	late := s.ApplicableActions(c, o, action.MinResetIteration)
	found := false
	for _, a := range late {
		if a == action.Reset {
			found = true
		}
	}
	if !found {
		t.Fatal("reset should be applicable from the minimum iteration")
	}
}

func TestApplicableActionsAlwaysHasGeneratorAndNoOp(t *testing.T) {
	s := New()
	got := s.ApplicableActions(objective.Text(""), objective.Objective{Intent: "x"}, 0)
	if got[0] != action.UseGenerator || got[len(got)-1] != action.NoOp {
		t.Fatalf("use_generator first and noop last, got %v", got)
	}
}

func TestApplyDispatch(t *testing.T) {
	s := New()
	o := salesObjective()
	c := objective.Text("SELECT region FROM sales")

	res := s.Apply(c, action.UseGenerator, o)
	if !res.RequiresGeneration || res.FromScratch {
		t.Fatalf("use_generator should request generation with context, got %+v", res)
	}

	res = s.Apply(c, action.Reset, o)
	if !res.RequiresGeneration || !res.FromScratch {
		t.Fatalf("reset should request generation from scratch, got %+v", res)
	}

	res = s.Apply(c, action.AddField, o)
	if res.RequiresGeneration || res.Candidate.Content() != "SELECT region, amount FROM sales" {
		t.Fatalf("unexpected add_field result: %+v", res)
	}

	res = s.Apply(c, action.NoOp, o)
	if res.RequiresGeneration || res.Candidate.Content() != c.Content() {
		t.Fatalf("noop should return the candidate unchanged, got %+v", res)
	}
}
