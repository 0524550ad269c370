package cli

import (
	"bytes"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/nissyi-gh/gantt/internal/board"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/prompt"
	"github.com/nissyi-gh/gantt/internal/render"
	"github.com/nissyi-gh/gantt/internal/stats"
	"github.com/nissyi-gh/gantt/internal/timeline"
	"github.com/nissyi-gh/gantt/internal/ui"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart as SVG",
	Long: `Render the chart as SVG.

Examples:
  gantt render                          # this month to stdout
  gantt render --view year -o plan.svg  # this year to a file
  gantt render --date 2024-02-01        # February 2024`,
	RunE: runRender,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for a date range",
	RunE:  runStats,
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks as a Kanban board",
	RunE:  runBoard,
}

var promptCmd = &cobra.Command{
	Use:   "prompt [task]",
	Short: "Print a planning prompt, for a new plan or to break down a task",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrompt,
}

// now is replaced in tests.
var now = time.Now

func init() {
	renderCmd.Flags().String("view", "", "month or year (default GANTT_VIEW)")
	renderCmd.Flags().String("date", "", "Any date inside the window (default today)")
	renderCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	statsCmd.Flags().String("range", "month", "week, month, quarter, year or all")
	boardCmd.Flags().Int("width", 100, "Board width in columns")
	promptCmd.Flags().Bool("copy", false, "Copy to the clipboard instead of printing")
}

func runRender(cmd *cobra.Command, args []string) error {
	viewFlag, _ := cmd.Flags().GetString("view")
	if viewFlag == "" {
		viewFlag = current.Config.View
	}
	view, err := timeline.ParseViewMode(viewFlag)
	if err != nil {
		return err
	}

	ref := calendar.DateOf(now())
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		if ref, err = calendar.ParseISO(s); err != nil {
			return err
		}
	}

	opts, err := render.LoadOptions(current.Config.RenderConfig)
	if err != nil {
		return err
	}
	opts.Today = now()

	tasks, err := current.Store.List()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, tasks, timeline.Build(ref, view), opts); err != nil {
		return err
	}
	return writeOutput(cmd, buf.Bytes())
}

func runStats(cmd *cobra.Command, args []string) error {
	preset, _ := cmd.Flags().GetString("range")
	t := now()
	from, to, err := stats.Preset(preset, t)
	if err != nil {
		return err
	}
	tasks, err := current.Store.List()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RenderStats(stats.Compute(tasks, from, to, t), t))
	return nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	tasks, err := current.Store.List()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderBoard(board.Group(tasks), width))
	return nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	text := prompt.GenerateNew()
	if len(args) == 1 {
		tasks, err := current.Store.List()
		if err != nil {
			return err
		}
		task, err := findTask(tasks, args[0])
		if err != nil {
			return err
		}
		text = prompt.GenerateFromTask(task, tasks)
	}

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy prompt: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Prompt copied to the clipboard.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
