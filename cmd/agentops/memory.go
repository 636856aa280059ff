package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var memoryRecent int

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect the long-term memory store",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		if !rt.mem.Enabled() {
			fmt.Println("Long-term memory is disabled.")
			return nil
		}

		ctx := cmd.Context()
		fmt.Printf("Entries: %d (dir: %s)\n", rt.mem.Count(ctx), rt.cfg.Memory.Dir)

		if memoryRecent > 0 {
			entries := rt.mem.Recent(ctx, memoryRecent)
			for _, e := range entries {
				fmt.Printf("\n[%s] %s %s\n", e.Timestamp, e.Type, e.ID)
				if e.UserQuery != "" {
					fmt.Printf("  query: %s\n", e.UserQuery)
				}
				if e.Operation != "" {
					fmt.Printf("  operation: %s (success=%v)\n", e.Operation, e.Success)
				}
				if e.ErrorCode != "" {
					fmt.Printf("  error: %s (%s/%s)\n", e.ErrorCode, e.ConfidenceLevel, e.Severity)
				}
			}
		}
		return nil
	},
}

func init() {
	memoryCmd.Flags().IntVar(&memoryRecent, "recent", 0, "Show the N most recent entries")
	rootCmd.AddCommand(memoryCmd)
}
