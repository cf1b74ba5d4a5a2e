package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/replay"
	"github.com/danielpatrickdp/rl-optimizer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to optimizer.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/optimizer.db")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 1
	}

	res, err := replay.Run(context.Background(), f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 1
	}

	fmt.Printf("fixture: %s\n", f.Description)
	for _, rec := range res.Log {
		fmt.Printf("  iter=%-2d action=%-20s passed=%-5v reward=%.1f converged=%v\n",
			rec.Iteration, rec.Action, rec.Passed, rec.Reward.Total, rec.Converged)
	}
	fmt.Printf("result: converged=%v iterations=%d reward=%.1f\n", res.Converged, res.Iterations, res.FinalReward.Total)
	fmt.Printf("candidate: %s\n", res.Content)

	mismatches := replay.Check(f, res)
	if len(mismatches) > 0 {
		fmt.Fprintln(os.Stderr, "\nMISMATCHES:")
		for _, m := range mismatches {
			fmt.Fprintf(os.Stderr, "  %s\n", m)
		}
		return 1
	}
	fmt.Println("\nOK")
	return 0
}

// #endregion fixture-mode

// #region db-mode

// runDBMode rebuilds the Q-table from the persisted experience log and
// diffs it against the stored snapshot. Each experience row carries the
// applicable set the policy saw, so the rebuild reproduces the live Bellman
// updates exactly and drift means the snapshot and the experiences disagree
// about how learning unfolded.
func runDBMode(path string) int {
	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 1
	}
	defer st.Close()

	entries, hp, err := st.LoadQTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load q-table: %v\n", err)
		return 1
	}
	if hp == nil {
		fmt.Fprintln(os.Stderr, "no q-table snapshot found")
		return 1
	}

	items, err := st.LoadExperiences()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load experiences: %v\n", err)
		return 1
	}

	rebuilt := replay.RebuildQTable(items, *hp)
	drift := diffTables(entries, rebuilt.Snapshot())

	fmt.Printf("experiences=%d stored_states=%d rebuilt_states=%d\n", len(items), len(entries), rebuilt.Len())
	if len(drift) == 0 {
		fmt.Println("OK: replayed Q-table matches the stored snapshot")
		return 0
	}
	fmt.Fprintf(os.Stderr, "DRIFT in %d state/action pairs:\n", len(drift))
	for _, d := range drift {
		fmt.Fprintf(os.Stderr, "  %s\n", d)
	}
	return 1
}

// diffTables reports state/action pairs whose Q values differ beyond float
// noise, plus states present on only one side. Eviction makes the stored
// side a subset in long-running databases, so missing-on-rebuilt is the
// interesting direction.
func diffTables(stored, rebuilt []policy.StateEntry) []string {
	rebuiltByKey := make(map[string]map[string]float64, len(rebuilt))
	for _, e := range rebuilt {
		m := make(map[string]float64, len(e.Values))
		for a, q := range e.Values {
			m[string(a)] = q
		}
		rebuiltByKey[e.Key] = m
	}

	var drift []string
	for _, e := range stored {
		got, ok := rebuiltByKey[e.Key]
		if !ok {
			drift = append(drift, fmt.Sprintf("state %s: missing from rebuild", e.Key))
			continue
		}
		for a, want := range e.Values {
			if math.Abs(got[string(a)]-want) > 1e-9 {
				drift = append(drift, fmt.Sprintf("state %s action %s: stored=%.6f rebuilt=%.6f",
					e.Key, a, want, got[string(a)]))
			}
		}
	}
	return drift
}

// #endregion db-mode
