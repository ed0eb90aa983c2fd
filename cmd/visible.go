package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/disclosure"
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/ui"
)

var visibleCmd = &cobra.Command{
	Use:   "visible",
	Short: "List what the map shows at a zoom level",
	Long: `Lists the capabilities and landmarks drawn at --zoom. With --lat, --lng and
--span, landmarks are also culled to that view, as the explorer does.`,
	Args: cobra.NoArgs,
	RunE: runVisible,
}

func init() {
	visibleCmd.Flags().Float64("zoom", 0, "zoom level")
	visibleCmd.Flags().Float64("lat", 0, "view center latitude")
	visibleCmd.Flags().Float64("lng", 0, "view center longitude")
	visibleCmd.Flags().Float64("span", 0, "view height in map units; 0 disables culling")
	rootCmd.AddCommand(visibleCmd)
}

func runVisible(cmd *cobra.Command, _ []string) error {
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

	zoom, _ := cmd.Flags().GetFloat64("zoom")
	store := s.store(res)
	store.SetZoom(zoom)

	landmarks := store.VisibleLandmarks()
	if span, _ := cmd.Flags().GetFloat64("span"); span > 0 {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		view := geo.BoundsAround(geo.Pt(lat, lng), span, span)
		landmarks = disclosure.Cull(landmarks, view, disclosure.DefaultCullBuffer)
	}

	printer.Visible(zoom, store.VisibleCapabilities(), landmarks)
	return nil
}
