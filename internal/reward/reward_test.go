package reward

import (
	"testing"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

func TestNewComposesTotal(t *testing.T) {
	r := New(90, 12, 1)
	if r.Constraint != 90 || r.Quality != 12 || r.SemanticPenalty != 15 {
		t.Fatalf("component mismatch: %+v", r)
	}
	if r.Total != 90+12-15 {
		t.Fatalf("expected total 87, got %v", r.Total)
	}
}

func TestNewClampsComponents(t *testing.T) {
	r := New(150, 80, 0)
	if r.Constraint != ConstraintFullPass {
		t.Fatalf("constraint should clamp to %v, got %v", ConstraintFullPass, r.Constraint)
	}
	if r.Quality != QualityBound {
		t.Fatalf("quality should clamp to %v, got %v", QualityBound, r.Quality)
	}

	r = New(-10, -80, 0)
	if r.Constraint != 0 {
		t.Fatalf("constraint should clamp to 0, got %v", r.Constraint)
	}
	if r.Quality != -QualityBound {
		t.Fatalf("quality should clamp to -%v, got %v", QualityBound, r.Quality)
	}
}

func TestPenaltyScalesWithIssues(t *testing.T) {
	r := New(100, 0, 3)
	if r.SemanticPenalty != 45 {
		t.Fatalf("expected penalty 45 for 3 issues, got %v", r.SemanticPenalty)
	}
	if r.Total != 55 {
		t.Fatalf("expected total 55, got %v", r.Total)
	}
}

func TestConverged(t *testing.T) {
	passing := objective.Evaluation{Passed: true}
	matching := SemanticReport{Match: true}
	r := New(100, 5, 0)

	if !Converged(passing, matching, r, 100) {
		t.Fatal("passing+matching above threshold should converge")
	}
	if Converged(objective.Evaluation{Passed: false}, matching, r, 100) {
		t.Fatal("failed evaluation must not converge")
	}
	if Converged(passing, SemanticReport{Match: false}, r, 100) {
		t.Fatal("semantic mismatch must not converge")
	}
	if Converged(passing, matching, New(90, 5, 0), 100) {
		t.Fatal("total below threshold must not converge")
	}
	// Exact threshold is sufficient.
	if !Converged(passing, matching, New(100, 0, 0), 100) {
		t.Fatal("total equal to threshold should converge")
	}
}
