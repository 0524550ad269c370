// Package cli wires the gantt commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/nissyi-gh/gantt/internal/config"
	"github.com/nissyi-gh/gantt/internal/logging"
	"github.com/nissyi-gh/gantt/internal/render"
	"github.com/nissyi-gh/gantt/internal/store"
	"github.com/nissyi-gh/gantt/internal/timeline"
	"github.com/nissyi-gh/gantt/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	rootCmd *cobra.Command

	// current is the App opened for the running command.
	current *App
)

// App holds what every command needs.
type App struct {
	Config *config.Config
	Store  *store.TaskStore
	Logger *slog.Logger

	closeLog func() error
}

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

func init() {
	rootCmd = &cobra.Command{
		Use:   "gantt",
		Short: "gantt - terminal Gantt planner",
		Long: `gantt plans tasks on a month or year timeline.

Without a subcommand it opens the interactive chart: drag a bar's ends to
resize it, drag its body to move it, and link tasks to draw dependency arrows.`,
		RunE:              runChart,
		PersistentPreRunE: openApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if current == nil {
				return
			}
			info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
			if !ok {
				return
			}
			current.Logger.Info("command end",
				"command", cmd.CommandPath(),
				"correlation_id", info.correlationID.String(),
				"duration_ms", time.Since(info.startedAt).Milliseconds(),
			)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides GANTT_DB_PATH)")
	rootCmd.Flags().StringP("export", "o", "gantt.svg", "Where the E key writes the SVG chart")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(promptCmd)
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	defer closeApp()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// openApp loads config, the logger and the store. The chart logs to
// GANTT_LOG_FILE because stderr belongs to the terminal; other commands log
// to stderr.
func openApp(cmd *cobra.Command, args []string) error {
	closeApp()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Format = logging.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = rootCmd.Version
	if cfg.IsProduction() {
		logCfg.Format = logging.LogFormatJSON
	}
	if verbose {
		logCfg.Level = logging.LogLevelDebug
	}

	a := &App{Config: cfg, closeLog: func() error { return nil }}
	if cmd == rootCmd {
		a.Logger, a.closeLog, err = logging.OpenFile(logCfg, cfg.LogFile)
		if err != nil {
			return err
		}
	} else {
		logCfg.Output = cmd.ErrOrStderr()
		a.Logger = logging.NewLogger(logCfg)
	}

	start := time.Now()
	a.Store, err = store.NewTaskStore(cfg.DBPath)
	if err != nil {
		a.closeLog()
		return err
	}
	logging.LogDuration(a.Logger, "open store", start)
	current = a

	info := commandContext{correlationID: uuid.New(), startedAt: time.Now()}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
	a.Logger.Debug("command start",
		"command", cmd.CommandPath(),
		"correlation_id", info.correlationID.String(),
	)
	return nil
}

func closeApp() {
	if current == nil {
		return
	}
	current.Store.Close()
	current.closeLog()
	current = nil
}

func runChart(cmd *cobra.Command, args []string) error {
	a := current
	view, err := timeline.ParseViewMode(a.Config.View)
	if err != nil {
		return err
	}
	opts, err := render.LoadOptions(a.Config.RenderConfig)
	if err != nil {
		return err
	}
	exportPath, _ := cmd.Flags().GetString("export")

	m := ui.NewModel(a.Store, ui.Options{
		View:       view,
		RowHeight:  a.Config.RowHeight,
		Render:     opts,
		ExportPath: exportPath,
		Logger:     a.Logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chart: %w", err)
	}
	return nil
}
