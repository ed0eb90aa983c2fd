package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/config"
	"github.com/papapumpkin/atlas/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View a JSONL telemetry log",
	Long: `Reads and formats the session telemetry written by "atlas explore" when
telemetry.path is set.

With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("file", "", "telemetry file (default telemetry.path)")
	telemetryCmd.Flags().String("kind", "", "only show events whose kind starts with this prefix")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	kind, _ := cmd.Flags().GetString("kind")
	follow, _ := cmd.Flags().GetBool("follow")

	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.Telemetry.Path
	}
	if path == "" {
		return fmt.Errorf("telemetry: no file; pass --file or set telemetry.path")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	t := &tail{w: cmd.OutOrStdout(), r: bufio.NewReader(f), kind: kind}
	t.drain()

	if !follow {
		printEvent(t.w, t.partial.String(), kind)
		return nil
	}
	return t.follow(path)
}

// tail prints events from a growing JSONL file. A trailing partial line is
// held until the writer finishes it.
type tail struct {
	w       io.Writer
	r       *bufio.Reader
	kind    string
	partial strings.Builder
}

// follow watches the file for new data using fsnotify and prints new events.
func (t *tail) follow(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		t.drain()
	}
	return nil
}

func (t *tail) drain() {
	for {
		chunk, err := t.r.ReadString('\n')
		t.partial.WriteString(chunk)
		if err != nil {
			return
		}
		printEvent(t.w, t.partial.String(), t.kind)
		t.partial.Reset()
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
func printEvent(w io.Writer, line, kind string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	evts, err := telemetry.Decode(strings.NewReader(line))
	if err != nil || len(evts) != 1 {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if !strings.HasPrefix(evts[0].Kind, kind) {
		return
	}
	fmt.Fprintln(w, telemetry.Format(evts[0]))
}
