package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// newCompareCmd creates the compare command.
func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <query1> <query2>",
		Short: "Score the structural similarity of two compounds",
		Long: "Compare resolves both queries, computes hashed structural fingerprints\n" +
			"over the molecular graphs, and reports Tanimoto and Dice coefficients\n" +
			"with a qualitative similarity label.",
		Example: `  chemalyzer compare aspirin ibuprofen
  chemalyzer compare "c1ccccc1" benzene
  chemalyzer compare caffeine nicotine --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1])
		},
	}
}

func runCompare(cmd *cobra.Command, query1, query2 string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	r, err := cliCtx.newRunner(true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	report, err := r.Compare(ctx, query1, query2)
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, report)
	}

	renderComparison(cmd.OutOrStdout(), report)
	return nil
}

// renderComparison writes the human-readable similarity report.
func renderComparison(w io.Writer, report *types.SimilarityReport) {
	title := color.New(color.FgCyan, color.Bold)

	fmt.Fprintf(w, "\n%s\n", title.Sprint("Structural similarity"))
	propTable(w, [][]string{
		{"Compound 1", fmt.Sprintf("%s (%s)", report.Query1.Name, report.Query1.Formula)},
		{"", report.Query1.SMILES},
		{"Compound 2", fmt.Sprintf("%s (%s)", report.Query2.Name, report.Query2.Formula)},
		{"", report.Query2.SMILES},
	})

	fmt.Fprintln(w)
	propTable(w, [][]string{
		{"Tanimoto", fmt.Sprintf("%.4f", report.Tanimoto)},
		{"Dice", fmt.Sprintf("%.4f", report.Dice)},
		{"Similarity", colorizeSimilarity(report.Similarity)},
	})
}

func colorizeSimilarity(label string) string {
	switch label {
	case "identical", "high":
		return color.GreenString(label)
	case "moderate":
		return color.YellowString(label)
	default:
		return label
	}
}
