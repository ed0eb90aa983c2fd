package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/telemetry"
	"github.com/papapumpkin/atlas/internal/ui"
	"github.com/papapumpkin/atlas/internal/urlstate"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Build or decode a share link",
	Long: `Builds a share link for a view. When --entity is given without --lat/--lng
the data is loaded and the view is framed on the entity, as selecting it in
the explorer would. With --decode, prints the parameters a link carries.`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

func init() {
	shareCmd.Flags().Float64("lat", 0, "view center latitude")
	shareCmd.Flags().Float64("lng", 0, "view center longitude")
	shareCmd.Flags().Float64("zoom", 0, "zoom level")
	shareCmd.Flags().String("entity", "", "selected entity id")
	shareCmd.Flags().String("entity-type", "", "selected entity type (capability, landmark, organization)")
	shareCmd.Flags().String("org", "", "highlighted organization id")
	shareCmd.Flags().String("decode", "", "share link or query string to decode")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	if raw, _ := cmd.Flags().GetString("decode"); raw != "" {
		printer.DecodedParams(urlstate.Decode(queryPart(raw)))
		return nil
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	flags := cmd.Flags()
	var v urlstate.View

	if flags.Changed("lat") != flags.Changed("lng") {
		return fmt.Errorf("--lat and --lng must be given together")
	}
	if flags.Changed("lat") {
		lat, _ := flags.GetFloat64("lat")
		lng, _ := flags.GetFloat64("lng")
		c := geo.Pt(lat, lng)
		v.Center = &c
	}
	if flags.Changed("zoom") {
		z, _ := flags.GetFloat64("zoom")
		v.Zoom = &z
	}

	if id, _ := flags.GetString("entity"); id != "" {
		rawType, _ := flags.GetString("entity-type")
		t, ok := model.ParseEntityType(rawType)
		if !ok {
			return fmt.Errorf("--entity needs a valid --entity-type, got %q", rawType)
		}
		ref := model.EntityRef{Type: t, ID: id}
		v.Selected = &ref
		if v.Center == nil {
			framed, err := s.frame(cmd, ref)
			if err != nil {
				return err
			}
			v.Center, v.Zoom = framed.Center, framed.Zoom
		}
	}
	v.OrgID, _ = flags.GetString("org")

	link := urlstate.ShareURL(s.cfg.URL.Base, v)
	printer.ShareURL(link)
	s.record(telemetry.KindShare, map[string]any{"query": urlstate.Query(v)})
	return nil
}

// frame loads the data and returns the view that focusing ref produces.
func (s *session) frame(cmd *cobra.Command, ref model.EntityRef) (urlstate.View, error) {
	res, _, err := s.load(cmd.Context())
	if err != nil {
		return urlstate.View{}, err
	}
	store := s.store(res)
	if err := viewstate.Focus(store, ref, viewstate.DefaultFlyOptions); err != nil {
		return urlstate.View{}, fmt.Errorf("cannot frame %s %s: %w", ref.Type, ref.ID, err)
	}
	return urlstate.ViewOf(store.State()), nil
}

// queryPart returns the query of a full link, or raw itself when it is
// already a query string.
func queryPart(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		return u.RawQuery
	}
	return strings.TrimPrefix(raw, "?")
}
