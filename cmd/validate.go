package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the entity documents",
	Long: `Loads every collection from the configured source, validates it and
reports cross-collection references that resolve to nothing. Exits non-zero
when any collection fails to load; dangling references are only reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, src, err := s.load(cmd.Context())
		if err != nil {
			return err
		}
		printer := ui.New()
		printer.Banner()
		printer.Info("source: " + src.String())
		if !printer.LoadReport(res) {
			s.close()
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
