package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axelvallin-balder/schedule-builder-sub001/app"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/solver"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a one-shot assignment pass over a fixture file",
	RunE:  solve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	if fixturesPath == "" {
		return fmt.Errorf("solve requires --fixtures")
	}
	fx, err := app.LoadFixtures(fixturesPath)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	s := solver.NewGreedySolver()
	assignments := s.Assign(fx.Courses, fx.Teachers)
	loads := solver.Loads(fx.Teachers, fx.Courses, assignments)

	out := struct {
		Assignments []model.Assignment `json:"assignments"`
		Loads       map[string]float64 `json:"loads"`
		Balance     float64            `json:"balance_stddev"`
	}{
		Assignments: assignments,
		Loads:       loads,
		Balance:     solver.BalanceScore(loads),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
