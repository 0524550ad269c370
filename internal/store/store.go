package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a task or subtask id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange is returned when an end date falls before its start date.
	ErrInvalidRange = errors.New("end date before start date")
)

// TaskStore manages SQLite persistence for tasks.
type TaskStore struct {
	db *sql.DB
}

func defaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "gantt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "gantt.db"), nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT    PRIMARY KEY,
	name       TEXT    NOT NULL,
	start_date TEXT    NOT NULL,
	end_date   TEXT    NOT NULL,
	color      TEXT    NOT NULL DEFAULT 'blue',
	position   INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS task_dependencies (
	task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	depends_on_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	PRIMARY KEY (task_id, depends_on_id)
);
CREATE TABLE IF NOT EXISTS subtasks (
	id        TEXT    PRIMARY KEY,
	task_id   TEXT    NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	name      TEXT    NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	comment   TEXT    NOT NULL DEFAULT '',
	position  INTEGER NOT NULL DEFAULT 0
);`

// NewTaskStore opens (or creates) the SQLite database and ensures the schema exists.
func NewTaskStore(dbPath string) (*TaskStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("determine db path: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// foreign_keys is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := addColumn(db, "tasks", "custom_color", "TEXT NOT NULL DEFAULT ''"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate custom_color: %w", err)
	}

	if err := addColumn(db, "tasks", "blocked", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate blocked: %w", err)
	}

	return &TaskStore{db: db}, nil
}

// addColumn adds column to table unless it is already there.
func addColumn(db *sql.DB, table, column, def string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == column {
			found = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	if !found {
		_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def))
		return err
	}
	return nil
}

const taskColumns = "id, name, start_date, end_date, color, custom_color, blocked"

func scanTask(scanner interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	var start, end, color string
	var blocked int
	if err := scanner.Scan(&t.ID, &t.Name, &start, &end, &color, &t.CustomColor, &blocked); err != nil {
		return model.Task{}, err
	}
	var err error
	if t.StartDate, err = calendar.ParseISO(start); err != nil {
		return model.Task{}, err
	}
	if t.EndDate, err = calendar.ParseISO(end); err != nil {
		return model.Task{}, err
	}
	t.Color = model.Color(color)
	t.Blocked = blocked != 0
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Add inserts t at the bottom of the chart and returns it as stored. An empty
// id is replaced with a fresh one.
func (s *TaskStore) Add(t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Color == "" {
		t.Color = model.ColorBlue
	}
	if t.EndDate.Before(t.StartDate) {
		return model.Task{}, fmt.Errorf("add task %q: %w", t.Name, ErrInvalidRange)
	}

	err := s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO tasks (id, name, start_date, end_date, color, custom_color, blocked, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks))`,
			t.ID, t.Name, calendar.FormatISO(t.StartDate), calendar.FormatISO(t.EndDate),
			string(t.Color), t.CustomColor, boolInt(t.Blocked),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return writeChildren(tx, t)
	})
	if err != nil {
		return model.Task{}, err
	}
	return s.GetByID(t.ID)
}

func writeChildren(tx *sql.Tx, t model.Task) error {
	for _, dep := range t.DependsOn {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)",
			t.ID, dep,
		); err != nil {
			return fmt.Errorf("insert dependency %s: %w", dep, err)
		}
	}
	for i, st := range t.Subtasks {
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		if _, err := tx.Exec(
			"INSERT INTO subtasks (id, task_id, name, completed, comment, position) VALUES (?, ?, ?, ?, ?, ?)",
			st.ID, t.ID, st.Name, boolInt(st.Completed), st.Comment, i,
		); err != nil {
			return fmt.Errorf("insert subtask %q: %w", st.Name, err)
		}
	}
	return nil
}

// List returns all tasks in chart row order.
func (s *TaskStore) List() ([]model.Task, error) {
	rows, err := s.db.Query("SELECT " + taskColumns + " FROM tasks ORDER BY position ASC, created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	deps, err := loadDependencies(s.db, "")
	if err != nil {
		return nil, err
	}
	subs, err := loadSubtasks(s.db, "")
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].DependsOn = deps[tasks[i].ID]
		tasks[i].Subtasks = subs[tasks[i].ID]
	}
	return tasks, nil
}

// loadDependencies returns dependency ids keyed by task id, for one task or
// all of them when taskID is empty.
func loadDependencies(q querier, taskID string) (map[string][]string, error) {
	query := "SELECT task_id, depends_on_id FROM task_dependencies"
	var args []any
	if taskID != "" {
		query += " WHERE task_id = ?"
		args = append(args, taskID)
	}
	rows, err := q.Query(query+" ORDER BY rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, dep string
		if err := rows.Scan(&id, &dep); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		out[id] = append(out[id], dep)
	}
	return out, rows.Err()
}

func loadSubtasks(q querier, taskID string) (map[string][]model.Subtask, error) {
	query := "SELECT id, task_id, name, completed, comment FROM subtasks"
	var args []any
	if taskID != "" {
		query += " WHERE task_id = ?"
		args = append(args, taskID)
	}
	rows, err := q.Query(query+" ORDER BY position, rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("query subtasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Subtask)
	for rows.Next() {
		var st model.Subtask
		var owner string
		var completed int
		if err := rows.Scan(&st.ID, &owner, &st.Name, &completed, &st.Comment); err != nil {
			return nil, fmt.Errorf("scan subtask: %w", err)
		}
		st.Completed = completed != 0
		out[owner] = append(out[owner], st)
	}
	return out, rows.Err()
}

// GetByID retrieves a single task by its ID.
func (s *TaskStore) GetByID(id string) (model.Task, error) {
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}

	deps, err := loadDependencies(s.db, id)
	if err != nil {
		return model.Task{}, err
	}
	subs, err := loadSubtasks(s.db, id)
	if err != nil {
		return model.Task{}, err
	}
	t.DependsOn = deps[id]
	t.Subtasks = subs[id]
	return t, nil
}

// Update replaces every field of the stored task, its dependencies and its
// subtasks included. A dependency list that would close a cycle is rejected.
func (s *TaskStore) Update(t model.Task) error {
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("update task %s: %w", t.ID, ErrInvalidRange)
	}
	tasks, err := s.List()
	if err != nil {
		return err
	}
	if model.FindCycle(model.ReplaceTask(tasks, t)) != nil {
		return fmt.Errorf("update task %s: %w", t.ID, model.ErrDependencyCycle)
	}
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE tasks SET name = ?, start_date = ?, end_date = ?, color = ?, custom_color = ?, blocked = ?
			 WHERE id = ?`,
			t.Name, calendar.FormatISO(t.StartDate), calendar.FormatISO(t.EndDate),
			string(t.Color), t.CustomColor, boolInt(t.Blocked), t.ID,
		)
		if err != nil {
			return fmt.Errorf("update task %s: %w", t.ID, err)
		}
		if err := mustAffect(res, "task "+t.ID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM task_dependencies WHERE task_id = ?", t.ID); err != nil {
			return fmt.Errorf("clear dependencies of %s: %w", t.ID, err)
		}
		if _, err := tx.Exec("DELETE FROM subtasks WHERE task_id = ?", t.ID); err != nil {
			return fmt.Errorf("clear subtasks of %s: %w", t.ID, err)
		}
		return writeChildren(tx, t)
	})
}

// UpdateDates reschedules a task. It is the single write issued at the end of
// a drag.
func (s *TaskStore) UpdateDates(id string, start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("update dates task %s: %w", id, ErrInvalidRange)
	}
	res, err := s.db.Exec(
		"UPDATE tasks SET start_date = ?, end_date = ? WHERE id = ?",
		calendar.FormatISO(start), calendar.FormatISO(end), id,
	)
	if err != nil {
		return fmt.Errorf("update dates task %s: %w", id, err)
	}
	return mustAffect(res, "task "+id)
}

// SetBlocked sets or clears the blocked flag.
func (s *TaskStore) SetBlocked(id string, blocked bool) error {
	res, err := s.db.Exec("UPDATE tasks SET blocked = ? WHERE id = ?", boolInt(blocked), id)
	if err != nil {
		return fmt.Errorf("set blocked task %s: %w", id, err)
	}
	return mustAffect(res, "task "+id)
}

// AddDependency records that taskID cannot start before dependsOnID ends.
// Self edges and edges closing a cycle are rejected.
func (s *TaskStore) AddDependency(taskID, dependsOnID string) error {
	if _, err := s.GetByID(taskID); err != nil {
		return err
	}
	if _, err := s.GetByID(dependsOnID); err != nil {
		return err
	}
	tasks, err := s.List()
	if err != nil {
		return err
	}
	if model.WouldCycle(tasks, taskID, dependsOnID) {
		return fmt.Errorf("add dependency %s -> %s: %w", taskID, dependsOnID, model.ErrDependencyCycle)
	}
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)",
		taskID, dependsOnID,
	); err != nil {
		return fmt.Errorf("add dependency %s -> %s: %w", taskID, dependsOnID, err)
	}
	return nil
}

// RemoveDependency deletes one edge. Removing a missing edge is not an error.
func (s *TaskStore) RemoveDependency(taskID, dependsOnID string) error {
	_, err := s.db.Exec(
		"DELETE FROM task_dependencies WHERE task_id = ? AND depends_on_id = ?",
		taskID, dependsOnID,
	)
	if err != nil {
		return fmt.Errorf("remove dependency %s -> %s: %w", taskID, dependsOnID, err)
	}
	return nil
}

// AddSubtask appends an open subtask to a task.
func (s *TaskStore) AddSubtask(taskID, name string) (model.Subtask, error) {
	if _, err := s.GetByID(taskID); err != nil {
		return model.Subtask{}, err
	}
	st := model.NewSubtask(name)
	_, err := s.db.Exec(
		`INSERT INTO subtasks (id, task_id, name, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM subtasks WHERE task_id = ?))`,
		st.ID, taskID, name, taskID,
	)
	if err != nil {
		return model.Subtask{}, fmt.Errorf("add subtask to %s: %w", taskID, err)
	}
	return st, nil
}

// ToggleSubtask atomically flips the completed status of a subtask.
func (s *TaskStore) ToggleSubtask(id string) error {
	res, err := s.db.Exec("UPDATE subtasks SET completed = 1 - completed WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("toggle subtask %s: %w", id, err)
	}
	return mustAffect(res, "subtask "+id)
}

// Delete removes a task by ID. Its subtasks and every edge touching it are
// cascade-deleted.
func (s *TaskStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return mustAffect(res, "task "+id)
}

// Move shifts a task offset rows up (negative) or down (positive), clamped to
// the list bounds.
func (s *TaskStore) Move(id string, offset int) error {
	tasks, err := s.List()
	if err != nil {
		return err
	}
	from := model.IndexOf(tasks, id)
	if from < 0 {
		return fmt.Errorf("move task %s: %w", id, ErrNotFound)
	}
	to := max(0, min(len(tasks)-1, from+offset))
	if to == from {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			ids = append(ids, t.ID)
		}
	}
	ids = append(ids[:to], append([]string{id}, ids[to:]...)...)

	return s.withTx(func(tx *sql.Tx) error {
		for pos, tid := range ids {
			if _, err := tx.Exec("UPDATE tasks SET position = ? WHERE id = ?", pos+1, tid); err != nil {
				return fmt.Errorf("move task %s: %w", tid, err)
			}
		}
		return nil
	})
}

func (s *TaskStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func mustAffect(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *TaskStore) Close() error {
	return s.db.Close()
}
