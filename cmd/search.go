package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/search"
	"github.com/papapumpkin/atlas/internal/telemetry"
	"github.com/papapumpkin/atlas/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Fuzzy-search capabilities, landmarks and organizations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("type", nil, "restrict to entity types (capability, landmark, organization)")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default search.limit)")
	searchCmd.Flags().Float64("max-score", 1, "drop results scoring worse than this")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	query := strings.Join(args, " ")

	types, err := parseEntityTypes(cmd)
	if err != nil {
		return err
	}

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

	limit := s.cfg.Search.Limit
	if l, _ := cmd.Flags().GetInt("limit"); l > 0 {
		limit = l
	}
	maxScore, _ := cmd.Flags().GetFloat64("max-score")

	d := res.Data
	idx := search.New(d.Capabilities, d.Landmarks, d.Organizations, search.WithThreshold(s.cfg.Search.Threshold))
	results := idx.Search(query, idx.Len())
	if len(types) > 0 {
		results = search.FilterByEntityType(results, types...)
	}
	results = search.FilterByScore(results, maxScore)
	if len(results) > limit {
		results = results[:limit]
	}

	printer.SearchResults(query, results)
	s.record(telemetry.KindSearch, map[string]any{"query": query, "results": len(results)})
	return nil
}

func parseEntityTypes(cmd *cobra.Command) ([]model.EntityType, error) {
	raw, _ := cmd.Flags().GetStringSlice("type")
	types := make([]model.EntityType, 0, len(raw))
	for _, r := range raw {
		t, ok := model.ParseEntityType(strings.TrimSpace(r))
		if !ok {
			return nil, fmt.Errorf("unknown entity type %q", r)
		}
		types = append(types, t)
	}
	return types, nil
}
