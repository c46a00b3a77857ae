package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

var (
	analyzeNo3D     bool
	analyzePrintMol bool
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Analyze a compound by name, SMILES, or natural-language query",
		Long: "Analyze resolves the query to a structure and reports the molecular\n" +
			"formula, physicochemical descriptors, drug-likeness rules, ADMET\n" +
			"heuristics, functional groups and a 3D conformer in MOL V2000 format.",
		Example: `  chemalyzer analyze aspirin
  chemalyzer analyze "CC(=O)OC1=CC=CC=C1C(=O)O"
  chemalyzer analyze "what is the structure of caffeine" --output json
  chemalyzer analyze ibuprofen --server http://localhost:8080`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&analyzeNo3D, "no-3d", false, "skip 3D conformer generation (embedded engine only)")
	cmd.Flags().BoolVar(&analyzePrintMol, "mol", false, "print the MOL V2000 block in text output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, query string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	r, err := cliCtx.newRunner(analyzeNo3D)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	record, err := r.Analyze(ctx, query)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeUnknownCompound) {
			if s := r.Suggest(query); len(s) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Did you mean: %s\n", strings.Join(s, ", "))
			}
		}
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, record)
	}

	renderAnalysis(cmd.OutOrStdout(), record, analyzePrintMol)
	return nil
}

// renderAnalysis writes the human-readable report for one analysis record.
func renderAnalysis(w io.Writer, rec *types.CompoundAnalysis, printMol bool) {
	title := color.New(color.FgCyan, color.Bold)

	fmt.Fprintf(w, "\n%s  %s\n", title.Sprint(rec.Name), rec.Formula)
	fmt.Fprintf(w, "SMILES: %s\n", rec.SMILES)
	if rec.IUPACName != "" {
		fmt.Fprintf(w, "IUPAC:  %s\n", rec.IUPACName)
	}
	if len(rec.FunctionalGroups) > 0 {
		fmt.Fprintf(w, "Functional groups: %s\n", strings.Join(rec.FunctionalGroups, ", "))
	}

	fmt.Fprintf(w, "\n%s\n", title.Sprint("Properties"))
	p := rec.Properties
	propTable(w, [][]string{
		{"Molecular weight", fmt.Sprintf("%.2f g/mol", p.MolecularWeight)},
		{"LogP", fmt.Sprintf("%.2f", p.LogP)},
		{"H-bond donors", fmt.Sprintf("%d", p.HBondDonors)},
		{"H-bond acceptors", fmt.Sprintf("%d", p.HBondAcceptors)},
		{"Rotatable bonds", fmt.Sprintf("%d", p.RotatableBonds)},
		{"Polar surface area", fmt.Sprintf("%.2f Å²", p.PolarSurfaceArea)},
		{"Heavy atoms", fmt.Sprintf("%d", p.HeavyAtomCount)},
		{"Rings", fmt.Sprintf("%d", p.RingCount)},
		{"Aromatic rings", fmt.Sprintf("%d", p.AromaticRings)},
		{"Heteroatoms", fmt.Sprintf("%d", p.HeteroAtoms)},
	})

	fmt.Fprintf(w, "\n%s\n", title.Sprint("Drug-likeness"))
	d := rec.DrugLikeness
	propTable(w, [][]string{
		{"Lipinski violations", colorizeViolations(d.LipinskiViolations, 1)},
		{"Veber violations", colorizeViolations(d.VeberViolations, 0)},
		{"Lead-like", yesNo(d.LeadLikeness)},
		{"Drug-like", yesNo(d.DrugLikeness)},
	})

	fmt.Fprintf(w, "\n%s\n", title.Sprint("ADMET"))
	a := rec.ADMET
	cyp := "none"
	if len(a.CYP450Inhibition) > 0 {
		cyp = strings.Join(a.CYP450Inhibition, ", ")
	}
	propTable(w, [][]string{
		{"Blood-brain barrier", a.BloodBrainBarrier},
		{"Intestinal absorption", a.HumanIntestinalAbsorption},
		{"CYP450 inhibition", cyp},
		{"Toxicity", colorizeToxicity(a.Toxicity)},
	})

	fmt.Fprintln(w)
	switch {
	case rec.Structure3D == "":
		fmt.Fprintln(w, "3D structure: not available for this molecule")
	case printMol:
		fmt.Fprintf(w, "%s\n%s", title.Sprint("3D structure (MOL V2000)"), rec.Structure3D)
	default:
		lines := strings.Count(rec.Structure3D, "\n")
		fmt.Fprintf(w, "3D structure: MOL V2000 block, %d lines (print with --mol or --output json)\n", lines)
	}
}

// propTable renders two-column name/value rows without borders.
func propTable(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// colorizeViolations greens a count within the tolerated budget and reds
// anything above it.
func colorizeViolations(count, tolerated int) string {
	s := fmt.Sprintf("%d", count)
	if count <= tolerated {
		return color.GreenString(s)
	}
	return color.RedString(s)
}

func colorizeToxicity(level string) string {
	switch level {
	case "Low":
		return color.GreenString(level)
	case "Moderate":
		return color.YellowString(level)
	case "High":
		return color.RedString(level)
	default:
		return level
	}
}
