package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/importer"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in chart order",
	RunE:  runList,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import tasks from YAML (stdin when no file or -)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks as YAML",
	RunE:  runExport,
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func init() {
	listCmd.Flags().String("chain", "", "Show what the named task waits for, as a tree")
	exportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
}

// findTask matches a task by id or exact name.
func findTask(tasks []model.Task, ref string) (model.Task, error) {
	for _, t := range tasks {
		if t.ID == ref || t.Name == ref {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("no task named %q", ref)
}

func runList(cmd *cobra.Command, args []string) error {
	tasks, err := current.Store.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if ref, _ := cmd.Flags().GetString("chain"); ref != "" {
		task, err := findTask(tasks, ref)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.RenderChain(tasks, task.ID))
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		var deps []string
		for _, id := range t.DependsOn {
			deps = append(deps, names[id])
		}
		name := t.Name
		if t.Blocked {
			name = "! " + name
		}
		rows = append(rows, []string{
			name,
			calendar.FormatISO(t.StartDate),
			calendar.FormatISO(t.EndDate),
			strconv.Itoa(t.Duration()),
			strconv.Itoa(t.Progress()) + "%",
			strings.Join(deps, ", "),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TASK", "START", "END", "DAYS", "DONE", "WAITS FOR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(out, tbl.Render())
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read yaml: %w", err)
	}

	n, err := importer.Import(current.Store, string(data))
	if err != nil {
		return err
	}
	current.Logger.Info("tasks imported", "count", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks.\n", n)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	tasks, err := current.Store.List()
	if err != nil {
		return err
	}
	data, err := importer.Export(tasks)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

// writeOutput writes to the --output file when set, otherwise stdout.
func writeOutput(cmd *cobra.Command, data []byte) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	current.Logger.Info("wrote file", "path", path, "bytes", len(data))
	return nil
}
