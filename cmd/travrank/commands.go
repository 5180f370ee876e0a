package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/travrank/internal/domain/model"
)

func driversCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drivers [NAME...]",
		Short: "List driver ratings from the reference file",
		Long: "List every reference driver, or look up the named ones. Names are\n" +
			"matched ignoring case; unknown names are shown with the default rating.",
		Example: `  travrank drivers "Björn Goop"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := startService(cmd, opts)
			if err != nil {
				return err
			}
			defer svc.Stop()
			if len(args) == 0 {
				return printDrivers(cmd.OutOrStdout(), svc.Drivers())
			}
			found := make([]model.Driver, len(args))
			for i, name := range args {
				found[i] = svc.Driver(name)
			}
			return printDrivers(cmd.OutOrStdout(), found)
		},
	}
}

func convertCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <GAME> <RAW.json>",
		Short: "Convert a provider export into a canonical race card",
		Long: "Convert a provider export (V4, V5, V64, V65, V75, V86, ...) into the canonical\n" +
			"race card format and write it as converted-<GAME>-<DATE>.json.",
		Example: "  travrank convert V86 v86-2025-10-29.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameType, rawPath := args[0], args[1]
			raw, err := os.ReadFile(rawPath) //nolint:gosec // operator supplied path
			if err != nil {
				return fmt.Errorf("read %s: %w", rawPath, err)
			}

			svc, err := startService(cmd, opts)
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Normalize(cmd.Context(), gameType, raw)
			if err != nil {
				return fmt.Errorf("%s: %w", rawPath, err)
			}
			out, err := model.Encode(res.Card)
			if err != nil {
				return err
			}
			target := filepath.Join(outDir, convertedName(res.Card))
			if err := os.WriteFile(target, out, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d races)\n", target, len(res.Card.Races))
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the converted card")
	return cmd
}

func analyzeCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "analyze <card.json>",
		Short:   "Rank every race of a converted race card",
		Example: "  travrank analyze converted-V86-2025-10-29.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close() //nolint:errcheck // read-only
			card, err := model.ReadCard(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			svc, err := startService(cmd, opts)
			if err != nil {
				return err
			}
			defer svc.Stop()

			card, err = svc.Enrich(card)
			if err != nil {
				return err
			}
			races, err := svc.Rank(cmd.Context(), card)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), races)
			}
			return printAnalysis(cmd.OutOrStdout(), card, races, svc.Breakdown)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output rankings as JSON")
	return cmd
}

// convertedName is the file name convert writes a card to.
func convertedName(card model.RaceCard) string {
	return fmt.Sprintf("converted-%s-%s.json", card.GameType, card.Date)
}
