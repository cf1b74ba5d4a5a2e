package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to optimizer.db")
	top := flag.Int("top", 20, "show N highest-Q state/action pairs")
	sessions := flag.Int("sessions", 10, "show N most recent sessions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/optimizer.db [--top N] [--sessions N] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := run(st, *top, *sessions, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region report

type qRow struct {
	StateKey string  `json:"state_key"`
	Action   string  `json:"action"`
	Q        float64 `json:"q"`
}

type report struct {
	Hyperparams *policy.Hyperparams  `json:"hyperparams,omitempty"`
	States      int                  `json:"states"`
	TopQ        []qRow               `json:"top_q"`
	Experiences int                  `json:"experiences"`
	AvgReward   float64              `json:"avg_reward"`
	SuccessRate float64              `json:"success_rate"`
	Sessions    []store.SessionStats `json:"sessions,omitempty"`
}

func run(st *store.Store, top, sessions int, jsonOut bool) error {
	entries, hp, err := st.LoadQTable()
	if err != nil {
		return err
	}

	var rows []qRow
	for _, e := range entries {
		for a, q := range e.Values {
			rows = append(rows, qRow{StateKey: e.Key, Action: string(a), Q: q})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Q != rows[j].Q {
			return rows[i].Q > rows[j].Q
		}
		return rows[i].StateKey < rows[j].StateKey
	})
	if len(rows) > top {
		rows = rows[:top]
	}

	items, err := st.LoadExperiences()
	if err != nil {
		return err
	}
	buf := experience.NewBuffer(len(items) + 1)
	buf.Restore(items)

	stats, err := st.ListSessions(sessions)
	if err != nil {
		return err
	}

	rep := report{
		Hyperparams: hp,
		States:      len(entries),
		TopQ:        rows,
		Experiences: len(items),
		AvgReward:   buf.AverageReward(),
		SuccessRate: buf.SuccessRate(),
		Sessions:    stats,
	}

	if jsonOut {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printReport(rep)
	return nil
}

func printReport(rep report) {
	if rep.Hyperparams != nil {
		fmt.Printf("hyperparams: alpha=%.2f gamma=%.2f epsilon=%.3f\n",
			rep.Hyperparams.Alpha, rep.Hyperparams.Gamma, rep.Hyperparams.Epsilon)
	} else {
		fmt.Println("no q-table snapshot found")
	}
	fmt.Printf("states=%d experiences=%d avg_reward=%.1f success_rate=%.2f\n\n",
		rep.States, rep.Experiences, rep.AvgReward, rep.SuccessRate)

	if len(rep.TopQ) > 0 {
		fmt.Println("top Q values:")
		for _, r := range rep.TopQ {
			fmt.Printf("  %8.2f  %-20s %s\n", r.Q, r.Action, trim(r.StateKey, 72))
		}
		fmt.Println()
	}

	if len(rep.Sessions) > 0 {
		fmt.Println("recent sessions:")
		for _, s := range rep.Sessions {
			fmt.Printf("  %s  iterations=%-3d converged=%-5v last_reward=%.1f\n",
				s.SessionID, s.Iterations, s.Converged, s.LastReward)
		}
	}
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// #endregion report
