package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

var (
	sheetClass  string
	sheetLevel  int
	sheetGender string
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Print the preset character sheet of a class",
	Long: fmt.Sprintf(`Print the preset character sheet of a class at a level.

Classes: %s`, strings.Join(charsheet.Classes(), ", ")),
	RunE: runSheet,
}

func init() {
	sheetCmd.Flags().StringVar(&sheetClass, "class", charsheet.DefaultClass, "Class archetype")
	sheetCmd.Flags().IntVar(&sheetLevel, "level", charsheet.MinLevel, "Level (1-10)")
	sheetCmd.Flags().StringVar(&sheetGender, "gender", "", "Gender")
}

func runSheet(cmd *cobra.Command, _ []string) error {
	sheet, err := charsheet.NewSheet(sheetClass, sheetLevel, sheetGender)
	if err != nil {
		return fmt.Errorf("failed to build sheet: %w", err)
	}
	return printSheet(cmd.OutOrStdout(), sheet)
}

func printSheet(out io.Writer, sheet *authoring.CharacterSheet) error {
	pool, err := charsheet.Pool(sheet.Level)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Class:\t%s\n", sheet.Class)
	fmt.Fprintf(w, "Level:\t%d\n", sheet.Level)
	if sheet.Gender != "" {
		fmt.Fprintf(w, "Gender:\t%s\n", sheet.Gender)
	}
	fmt.Fprintf(w, "Mode:\t%s\n", sheet.Mode)
	fmt.Fprintf(w, "HP:\t%d/%d\n", sheet.HP, sheet.MaxHP)
	fmt.Fprintf(w, "AC:\t%d\n", sheet.AC)
	fmt.Fprintf(w, "Points:\t%d of %d\n", charsheet.Total(sheet), pool)
	fmt.Fprintln(w)
	for _, a := range authoring.AllAbilities {
		score := sheet.Abilities[a]
		fmt.Fprintf(w, "%s\t%d\t%+d\n", a, score.Score, score.Modifier)
	}
	return w.Flush()
}
