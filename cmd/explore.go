package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/loader"
	"github.com/papapumpkin/atlas/internal/telemetry"
	"github.com/papapumpkin/atlas/internal/tui"
	"github.com/papapumpkin/atlas/internal/ui"
	"github.com/papapumpkin/atlas/internal/urlstate"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// exploreCmd launches the interactive map explorer.
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Launch the interactive map explorer",
	Long: `Launch the terminal map explorer. The view can be restored from a shared
link with --url; while exploring, the status bar carries a link to the
current view. With data.watch set, edits to the data directory are picked
up without restarting.`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().String("url", "", "share link or query string to restore")
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("atlas explore requires a TTY (terminal)")
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, src, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, p := range res.Problems {
		printer.Warn(p.Error())
	}

	store := s.store(res)
	if raw, _ := cmd.Flags().GetString("url"); raw != "" {
		params := urlstate.Decode(queryPart(raw))
		if params.IsEmpty() {
			printer.Warn("no view parameters in --url; starting from the default view")
		}
		urlstate.Apply(store, params)
	}

	emitter, err := s.emitter()
	if err != nil {
		return err
	}
	defer emitter.Close()
	detach := telemetry.Attach(store, emitter, s.logger)
	defer detach()
	if err := emitter.Emit(telemetry.Event{
		Kind:      telemetry.KindDataLoaded,
		SessionID: store.State().SessionID,
		Data: map[string]any{
			"capabilities":  len(res.Data.Capabilities),
			"landmarks":     len(res.Data.Landmarks),
			"organizations": len(res.Data.Organizations),
			"tours":         len(res.Data.Tours),
			"problems":      len(res.Problems),
		},
	}); err != nil {
		s.logger.Warn("telemetry emit failed", zap.Error(err))
	}

	share := tui.NewShareLink(cfg.URL.Base)
	// The restored view is not written by the syncer, so seed the link.
	_ = share.WriteQuery(urlstate.Query(urlstate.ViewOf(store.State())))
	syncer := urlstate.NewSyncer(store, share,
		urlstate.WithDebounce(cfg.URL.Debounce()),
		urlstate.WithSyncLogger(s.logger))
	syncer.Start()
	defer syncer.Stop()

	fly := viewstate.FlyOptions{Duration: cfg.Tour.FlyDuration(), EaseLinearity: cfg.Tour.EaseLinearity}
	tourSync := viewstate.NewTourMapSync(store, fly, s.logger)
	tourSync.Start()
	defer tourSync.Stop()

	if cfg.Data.Watch {
		stopWatch, err := watchData(ctx, cfg.Data.Dir, cfg.Data.URL, src, store, s.logger)
		if err != nil {
			printer.Warn(fmt.Sprintf("data watch disabled: %v", err))
		} else {
			defer stopWatch()
		}
	}

	camera := tui.NewCamera(store, cfg.Map.MinZoom, cfg.Map.MaxZoom)
	m := tui.NewModel(tui.Options{
		Store:           store,
		Camera:          camera,
		Share:           share,
		Fly:             fly,
		SearchLimit:     cfg.Search.Limit,
		SearchThreshold: cfg.Search.Threshold,
		Logger:          s.logger,
	})
	if err := tui.Run(m, tui.WithContext(ctx)); err != nil && ctx.Err() == nil {
		return fmt.Errorf("explorer: %w", err)
	}

	syncer.Flush()
	if u := share.URL(); u != "" {
		printer.ShareURL(u)
	}
	return nil
}

// watchData reloads the store when the data directory changes. Remote
// sources cannot be watched.
func watchData(ctx context.Context, dir, rawURL string, src loader.Source, store *viewstate.Store, logger *zap.Logger) (func(), error) {
	if rawURL != "" {
		return nil, fmt.Errorf("cannot watch remote source %s", rawURL)
	}
	w, err := loader.NewWatcher(dir, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		loader.Reload(ctx, w, src, store, logger)
	}()
	return func() {
		cancel()
		w.Stop()
		<-done
	}, nil
}
