package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/introspect"
	"github.com/solien-labs/affective-state/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to affective_state.db")
	last := flag.Int("last", 12, "show N most recent snapshots")
	learning := flag.Bool("learning", false, "show learning report instead of history")
	audit := flag.Int("audit", 0, "show N most recent weight-audit entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/affective_state.db [--last N] [--learning] [--audit N] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	switch {
	case *learning:
		err = runLearning(s, *jsonOut)
	case *audit > 0:
		err = runAudit(s, *audit, *jsonOut)
	default:
		err = runHistory(s, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region history-mode

func runHistory(s *store.Store, last int, jsonOut bool) error {
	states, err := s.ListStates(last)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		fmt.Fprintln(os.Stderr, "no snapshots found")
		return nil
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(states)
	}

	for _, st := range states {
		compounds := ""
		if len(st.Compounds) > 0 {
			compounds = fmt.Sprintf(" %v", st.Compounds)
		}
		fmt.Printf("%s  %-12s %-11s %.2f%s\n",
			st.LastUpdated.Format(time.RFC3339),
			st.Dominant, st.DominantLabel,
			st.Emotions[st.Dominant], compounds)
		if st.Trigger != "" {
			fmt.Printf("  trigger: %s\n", st.Trigger)
		}
	}

	fmt.Println()
	current := states[0]
	for _, e := range affect.Wheel {
		fmt.Printf("  %-13s %s %.3f\n", e, bar(current.Emotions[e]), current.Emotions[e])
	}
	return nil
}

func bar(v float64) string {
	const width = 24
	filled := int(v * width)
	out := make([]byte, width)
	for i := range out {
		if i < filled {
			out[i] = '#'
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// #endregion history-mode

// #region learning-mode

func runLearning(s *store.Store, jsonOut bool) error {
	bank, err := s.LoadBank(time.Now().UTC())
	if err != nil {
		return err
	}
	rep := introspect.ComputeLearningStats(bank)

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rep)
	}

	fmt.Printf("cycles: %d   total deviation: %.3f\n\n", rep.CycleCount, rep.TotalDeviation)
	for _, c := range rep.Categories {
		if c.Direction == introspect.DirectionNeutral {
			continue
		}
		fmt.Printf("%-20s %.3f  %-9s %-8s ~%d events\n",
			c.Category, c.Weight, c.Direction, c.LearningIntensity, c.EstimatedAdjustments)
	}
	fmt.Printf("\n%s\n", rep.OverallNarrative)
	return nil
}

// #endregion learning-mode

// #region audit-mode

func runAudit(s *store.Store, limit int, jsonOut bool) error {
	entries, err := s.ListWeightAudit(limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}
	for _, e := range entries {
		fmt.Printf("%s  %-20s %.3f -> %.3f  %s\n",
			e.CreatedAt.Format(time.RFC3339), e.Category, e.Before, e.After, e.Reason)
	}
	return nil
}

// #endregion audit-mode
