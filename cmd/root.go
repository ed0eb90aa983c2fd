package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/config"
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/loader"
	"github.com/papapumpkin/atlas/internal/logging"
	"github.com/papapumpkin/atlas/internal/telemetry"
	"github.com/papapumpkin/atlas/internal/ui"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Explore the map of LLM research",
	Long: `Atlas places capabilities, landmarks, organizations and guided tours of
LLM research history on a zoomable map. Run "atlas explore" for the
interactive explorer, or use the subcommands to search, inspect and share
views from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.New().Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .atlas.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "", "directory holding the entity documents")
	rootCmd.PersistentFlags().String("data-url", "", "base URL serving the entity documents (overrides --data)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("data.url", rootCmd.PersistentFlags().Lookup("data-url"))
}

func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".atlas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv(viper.GetViper())

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// session is the configuration and logger shared by every subcommand.
type session struct {
	cfg    config.Config
	logger *zap.Logger
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.Build(cfg.Log, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// load fetches every collection from the configured source.
func (s *session) load(ctx context.Context) (loader.Result, loader.Source, error) {
	src, err := loader.NewSource(s.cfg.Data.Dir, s.cfg.Data.URL)
	if err != nil {
		return loader.Result{}, nil, err
	}
	s.logger.Debug("loading data", zap.Stringer("source", src))
	return loader.Load(ctx, src, s.logger), src, nil
}

// store builds a store on the configured initial view holding res.
func (s *session) store(res loader.Result) *viewstate.Store {
	st := viewstate.New(
		viewstate.WithLogger(s.logger),
		viewstate.WithInitialView(geo.Pt(s.cfg.Map.CenterLat, s.cfg.Map.CenterLng), s.cfg.Map.Zoom),
	)
	st.SetCollections(res.Data)
	return st
}

// emitter opens the telemetry log, or returns nil when telemetry is off.
func (s *session) emitter() (*telemetry.Emitter, error) {
	if s.cfg.Telemetry.Path == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(s.cfg.Telemetry.Path)
}

// record emits a single event outside of a store session.
func (s *session) record(kind string, data map[string]any) {
	e, err := s.emitter()
	if err != nil {
		s.logger.Warn("telemetry unavailable", zap.Error(err))
		return
	}
	if e == nil {
		return
	}
	defer e.Close()
	if err := e.Emit(telemetry.Event{Kind: kind, Data: data}); err != nil {
		s.logger.Warn("telemetry emit failed", zap.String("kind", kind), zap.Error(err))
	}
}
