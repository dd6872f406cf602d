// Package backup writes gzip-compressed SQL dumps of the contacts database.
package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/leadbook/internal/sqlite"
)

type Service struct {
	db     *sqlx.DB
	dbPath string
}

func NewService(db *sqlx.DB, dbPath string) *Service {
	return &Service{db: db, dbPath: dbPath}
}

// Result describes a written backup file.
type Result struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Rows     int    `json:"rows"`
}

// CreateBackup snapshots the database with VACUUM INTO and writes the dump
// to backups/<timestamp>_leadbook.sql.gz next to the database file.
func (s *Service) CreateBackup(ctx context.Context) (*Result, error) {
	backupDir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	filename := time.Now().Format("2006-01-02_15.04.05") + "_leadbook.sql.gz"
	backupPath := filepath.Join(backupDir, filename)

	// dump from a consistent copy so writers are never blocked
	snapshot := filepath.Join(backupDir, "snapshot.db")
	os.Remove(snapshot)
	defer os.Remove(snapshot)
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return nil, fmt.Errorf("vacuum into snapshot: %w", err)
	}
	snap, err := sqlx.Open("sqlite3", snapshot+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snap.Close()

	file, err := os.Create(backupPath)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	rows, err := Dump(ctx, snap, gz)
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	return &Result{Filename: filename, Path: backupPath, Size: info.Size(), Rows: rows}, nil
}

// Dump writes a replayable SQL script for every table in db and returns the
// number of rows written. The script restores the application id so the
// result is accepted as a leadbook database.
func Dump(ctx context.Context, db *sqlx.DB, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- Leadbook Database Backup\n-- Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(bw, "PRAGMA application_id=%d;\n", sqlite.ApplicationID)
	bw.WriteString("BEGIN TRANSACTION;\n\n")

	var schema []struct {
		Name string `db:"name"`
		Type string `db:"type"`
		SQL  string `db:"sql"`
	}
	err := db.SelectContext(ctx, &schema, `
		SELECT name, type, sql FROM sqlite_master
		WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name`)
	if err != nil {
		return 0, fmt.Errorf("query schema: %w", err)
	}

	for _, obj := range schema {
		bw.WriteString(obj.SQL)
		bw.WriteString(";\n")
	}
	bw.WriteString("\n")

	total := 0
	for _, obj := range schema {
		if obj.Type != "table" {
			continue
		}
		n, err := dumpTable(ctx, db, bw, obj.Name)
		if err != nil {
			return total, fmt.Errorf("dump %s: %w", obj.Name, err)
		}
		total += n
	}

	// AUTOINCREMENT counters; without them a restore would hand out the ids
	// of rows deleted before the dump.
	var seqTables int
	if err := db.GetContext(ctx, &seqTables,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`); err != nil {
		return total, fmt.Errorf("query sqlite_sequence: %w", err)
	}
	if seqTables > 0 {
		bw.WriteString("\nDELETE FROM sqlite_sequence;\n")
		if _, err := dumpTable(ctx, db, bw, "sqlite_sequence"); err != nil {
			return total, fmt.Errorf("dump sqlite_sequence: %w", err)
		}
	}

	bw.WriteString("COMMIT;\n")
	return total, bw.Flush()
}

func dumpTable(ctx context.Context, db *sqlx.DB, w *bufio.Writer, table string) (int, error) {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	for i, c := range cols {
		cols[i] = strconv.Quote(c)
	}
	prefix := fmt.Sprintf("INSERT INTO %q (%s) VALUES (", table, strings.Join(cols, ", "))

	n := 0
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return n, err
		}
		w.WriteString(prefix)
		for i, v := range vals {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(literal(v))
		}
		w.WriteString(");\n")
		n++
	}
	return n, rows.Err()
}

// literal renders a scanned value as a SQLite literal.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case time.Time:
		return quote(val.Format(time.RFC3339))
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
