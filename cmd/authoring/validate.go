package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/validation"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

var validateCmd = &cobra.Command{
	Use:   "validate [draft.json]",
	Short: "Check a draft against the submission gate",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}

	var draft authoring.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return fmt.Errorf("failed to parse draft: %w", err)
	}

	result := validation.ForDraft(&draft)
	out := cmd.OutOrStdout()
	if result.Valid() {
		fmt.Fprintln(out, "Draft is ready to submit")
		return nil
	}

	for _, field := range slices.Sorted(maps.Keys(result)) {
		fmt.Fprintf(out, "  - %s: %s\n", field, result[field])
	}
	return fmt.Errorf("draft has %d problem(s)", len(result))
}
