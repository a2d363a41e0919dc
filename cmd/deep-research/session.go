package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/session"
	"github.com/pdiddy/deep-research/internal/stream"
	"github.com/pdiddy/deep-research/pkg/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect a journaled research session",
}

// sessionDirFlag resolves the session directory from the flag or config.
func sessionDirFlag(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("session-dir")
	if dir == "" {
		dir = loadPipelineConfig().Store.SessionDir
	}
	if dir == "" {
		return "", fmt.Errorf("no session directory: pass --session-dir or set store.session_dir")
	}
	return dir, nil
}

var sessionPlanCmd = &cobra.Command{
	Use:   "plan <plan.json>",
	Short: "Materialize a research plan into the session directory",
	Long: `Plan decodes a ResearchPlan JSON file, derives the step set (one step
per search query and per required analysis, each with a fresh unique id),
and writes both to plan.yaml in the session directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := sessionDirFlag(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading plan: %w", err)
		}
		plan, err := types.Decode[types.ResearchPlan](data)
		if err != nil {
			return err
		}

		pf, err := session.WritePlanFile(dir, plan)
		if err != nil {
			return err
		}
		fmt.Printf("Plan written to %s: %d steps (%d searches, %d analyses)\n",
			dir, pf.Summary.TotalSteps, pf.Summary.SearchSteps, pf.Summary.AnalysisSteps)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the coalesced view of a journaled session",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := sessionDirFlag(cmd)
		if err != nil {
			return err
		}

		store, err := session.Open(types.StoreConfig{SessionDir: dir})
		if err != nil {
			return err
		}
		defer store.Close()

		updates, err := store.Replay(cmd.Context())
		if err != nil {
			return err
		}
		j := stream.NewJournal()
		for _, u := range updates {
			if err := j.Apply(u); err != nil {
				return err
			}
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return stream.FormatJSON(j, os.Stdout)
		}
		stream.FormatTable(j, os.Stdout)

		results, err := session.ListStepResults(dir)
		if err != nil {
			return err
		}
		if len(results) > 0 {
			fmt.Println("\nSaved step results:")
			for _, r := range results {
				fmt.Printf("  %-28s  %s\n", r.StepID, r.Kind)
			}
		}
		return nil
	},
}

var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full update log as newline-delimited JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := sessionDirFlag(cmd)
		if err != nil {
			return err
		}

		store, err := session.Open(types.StoreConfig{SessionDir: dir})
		if err != nil {
			return err
		}
		defer store.Close()

		updates, err := store.Replay(cmd.Context())
		if err != nil {
			return err
		}

		w := stream.NewWriter(os.Stdout)
		for _, u := range updates {
			if err := w.Write(u); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "%d updates exported\n", len(updates))
		return nil
	},
}

func init() {
	sessionCmd.PersistentFlags().String("session-dir", "", "session directory (contains plan.yaml, steps/, index/)")
	sessionShowCmd.Flags().Bool("json", false, "output the coalesced view as JSON")

	sessionCmd.AddCommand(sessionPlanCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	rootCmd.AddCommand(sessionCmd)
}
