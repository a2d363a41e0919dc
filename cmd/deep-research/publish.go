package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/stream"
	"github.com/pdiddy/deep-research/internal/transport"
)

var publishCmd = &cobra.Command{
	Use:   "publish <stream.ndjson>",
	Short: "Send an update stream to a collector",
	Long: `Publish reads a newline-delimited JSON file of research_update frames
and POSTs each one to a collector's /updates endpoint in order, retrying
on HTTP 429. Pipeline stages that cannot reach the collector directly
can drop their frames to a file and forward them this way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig().Publisher
		if collector, _ := cmd.Flags().GetString("collector"); collector != "" {
			cfg.CollectorURL = collector
		}
		if cfg.CollectorURL == "" {
			return fmt.Errorf("no collector: pass --collector or set publisher.collector_url")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening stream file: %w", err)
		}
		defer f.Close()

		updates, err := stream.ReadAll(f)
		if err != nil {
			return err
		}

		p := transport.NewPublisher(cfg)
		for _, u := range updates {
			if err := p.Publish(cmd.Context(), u); err != nil {
				return fmt.Errorf("publishing step %s: %w", u.Data.ID, err)
			}
		}
		fmt.Fprintf(os.Stderr, "%d updates published to %s\n", len(updates), cfg.CollectorURL)
		return nil
	},
}

func init() {
	publishCmd.Flags().String("collector", "", "collector base URL (e.g. http://localhost:8085)")

	rootCmd.AddCommand(publishCmd)
}
