package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/tour"
	"github.com/papapumpkin/atlas/internal/ui"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Browse guided tours",
}

var tourListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tours, easiest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printer := ui.New()
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, _, err := s.load(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range res.Problems {
			printer.Warn(p.Error())
		}
		printer.TourList(tour.SortByDifficulty(res.Data.Tours))
		return nil
	},
}

var tourShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the stages of a tour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.New()
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, _, err := s.load(cmd.Context())
		if err != nil {
			return err
		}
		t, ok := tour.Find(res.Data.Tours, args[0])
		if !ok {
			return fmt.Errorf("no tour %q", args[0])
		}
		printer.TourShow(t)
		return nil
	},
}

func init() {
	tourCmd.AddCommand(tourListCmd, tourShowCmd)
	rootCmd.AddCommand(tourCmd)
}
