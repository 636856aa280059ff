package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// demoScenarios exercise each agent path end to end.
var demoScenarios = []string{
	"List all available jobs",
	"Run the data processing job",
	"What templates are available?",
	"Debug job_003",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the canned demo scenarios",
	Long: `Runs four requests through the workflow, one per agent path:
a job listing, a job execution, a knowledge question, and a debugging
analysis of the failed job_003.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		for i, input := range demoScenarios {
			fmt.Printf("━━━ Scenario %d: %s ━━━\n\n", i+1, input)
			st, err := rt.engine.Turn(ctx, "demo", input)
			if err != nil {
				return fmt.Errorf("scenario %d failed: %w", i+1, err)
			}
			fmt.Println(st.FinalResponse)
			fmt.Println()
		}

		if rt.mem.Enabled() {
			fmt.Printf("Stored %d memory entries.\n", rt.mem.Count(context.Background()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
