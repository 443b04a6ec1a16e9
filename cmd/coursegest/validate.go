package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coursegest/internal/record"
	"github.com/dgallion1/coursegest/internal/schema"
)

var validateKind string

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a JSON record against the embedded schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := record.ParseKind(validateKind)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		// Accept a whole parse result as well as a bare record.
		if m, ok := doc.(map[string]any); ok {
			if rec, ok := m["record"]; ok && m["kind"] != nil {
				doc = rec
			}
		}

		if err := schema.Validate(kind, doc); err != nil {
			return fmt.Errorf("%s is not a valid %s record: %w", args[0], kind, err)
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, map[string]any{
			"file":  args[0],
			"kind":  kind,
			"valid": true,
		})
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "", "record kind: assessment or chapter")
	validateCmd.MarkFlagRequired("kind")
}
