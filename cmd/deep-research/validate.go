package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/pkg/types"
)

// decoders maps a record-type name to a decode-and-validate function.
var decoders = map[string]func([]byte) error{
	"plan":          decodeAs[types.ResearchPlan],
	"search-query":  decodeAs[types.SearchQuery],
	"search-step":   decodeAs[types.SearchStepResult],
	"result-item":   decodeAs[types.SearchResultItem],
	"analysis":      decodeAs[types.AnalysisResult],
	"gap-analysis":  decodeAs[types.GapAnalysisResult],
	"synthesis":     decodeAs[types.FinalSynthesisResult],
	"step-info":     decodeAs[types.StepInfo],
	"stream-update": decodeAs[types.StreamUpdate],
}

func decodeAs[T types.Record](data []byte) error {
	_, err := types.Decode[T](data)
	return err
}

func recordTypeNames() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var validateCmd = &cobra.Command{
	Use:   "validate <record-type> <file.json>",
	Short: "Validate a JSON payload against a schema record type",
	Long: fmt.Sprintf(`Validate decodes a JSON file as the named record type and reports every
field that violates the schema. Unknown JSON fields are ignored.

Record types: %s`, strings.Join(recordTypeNames(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordType, path := args[0], args[1]

		decode, ok := decoders[recordType]
		if !ok {
			return fmt.Errorf("unknown record type %q (expected one of: %s)",
				recordType, strings.Join(recordTypeNames(), ", "))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading payload: %w", err)
		}

		if err := decode(data); err != nil {
			var ve *types.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintf(os.Stderr, "%s: invalid %s:\n", path, ve.Record)
				for _, f := range ve.Fields {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
				}
				return fmt.Errorf("%d field(s) failed validation", len(ve.Fields))
			}
			return err
		}

		fmt.Printf("%s: valid %s\n", path, recordType)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
