package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/stream"
)

var replayCmd = &cobra.Command{
	Use:   "replay <stream.ndjson>",
	Short: "Replay an update stream and print the coalesced view",
	Long: `Replay reads a newline-delimited JSON file of research_update frames,
applies the consumer ordering rules (arrival order per step, overwrite
replaces in place), and prints the resulting view.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening stream file: %w", err)
		}
		defer f.Close()

		updates, err := stream.ReadAll(f)
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
		return nil
	},
}

func init() {
	replayCmd.Flags().Bool("json", false, "output the coalesced view as JSON")

	rootCmd.AddCommand(replayCmd)
}
