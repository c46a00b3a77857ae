package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var compoundsFilter string

// newCompoundsCmd creates the compounds command.
func newCompoundsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compounds",
		Short: "List the compound names the engine resolves without a SMILES",
		Example: `  chemalyzer compounds
  chemalyzer compounds --filter ase
  chemalyzer compounds --output json`,
		Args: cobra.NoArgs,
		RunE: runCompounds,
	}

	cmd.Flags().StringVar(&compoundsFilter, "filter", "", "show only names containing this substring")

	return cmd
}

func runCompounds(cmd *cobra.Command, args []string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	r, err := cliCtx.newRunner(false)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	names, err := r.Compounds(ctx)
	if err != nil {
		return err
	}

	if f := strings.ToLower(strings.TrimSpace(compoundsFilter)); f != "" {
		filtered := names[:0]
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), f) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, struct {
			Compounds []string `json:"compounds"`
			Count     int      `json:"count"`
		}{Compounds: names, Count: len(names)})
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	fmt.Fprintf(out, "\n%d compounds\n", len(names))
	return nil
}
