package backup_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadbook/internal/backup"
	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/sqlite"
	"winsbygroup.com/leadbook/internal/testutil"
)

func TestCreateBackup(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "leads.db")
	db := testutil.NewTestDBAt(t, dbPath)

	svc := contact.NewService(db)
	if _, err := svc.Create(ctx, &contact.Contact{ContactName: "O'Brien", Email: "ob@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, &contact.Contact{ContactName: "Jane", Email: "jane@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := backup.NewService(db, dbPath).CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if !strings.HasSuffix(result.Filename, "_leadbook.sql.gz") {
		t.Errorf("unexpected filename %s", result.Filename)
	}
	if result.Size == 0 {
		t.Error("expected size > 0")
	}
	if filepath.Dir(result.Path) != filepath.Join(filepath.Dir(dbPath), "backups") {
		t.Errorf("backup written outside backups dir: %s", result.Path)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(result.Path), "snapshot.db")); !os.IsNotExist(err) {
		t.Error("snapshot should be removed")
	}

	file, err := os.Open(result.Path)
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer file.Close()
	gz, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	content, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	dump := string(content)

	for _, want := range []string{
		"-- Leadbook Database Backup",
		"CREATE TABLE",
		`INSERT INTO "users"`,
		"'O''Brien'",
		"jane@x.com",
		"BEGIN TRANSACTION",
		"COMMIT",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q", want)
		}
	}
}

// A dump replayed into an empty file must be a valid leadbook database with
// the same rows.
func TestDumpRestores(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewTestDB(t)
	svc := contact.NewService(src)
	if _, err := svc.BulkCreate(ctx, []contact.Contact{
		{ContactName: "A", Email: "a@x.com", Phone: "1"},
		{ContactName: "B"},
	}); err != nil {
		t.Fatalf("bulk: %v", err)
	}

	var buf bytes.Buffer
	n, err := backup.Dump(ctx, src, &buf)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if n < 2 {
		t.Errorf("expected at least 2 rows dumped, got %d", n)
	}

	dst, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "restored.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dst.Close()
	dst.SetMaxOpenConns(1)

	if _, err := dst.Exec(buf.String()); err != nil {
		t.Fatalf("replay dump: %v", err)
	}
	if err := sqlite.VerifyApplicationID(dst.DB); err != nil {
		t.Fatalf("restored db rejected: %v", err)
	}
	if err := sqlite.RunMigrations(dst.DB); err != nil {
		t.Fatalf("migrations on restored db: %v", err)
	}

	got, err := contact.NewService(dst).GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 2 || got[0].Phone != "1" || got[1].ContactName != "B" {
		t.Errorf("unexpected restored rows %+v", got)
	}
}

// Ids of rows deleted before the dump must not be handed out again after a
// restore.
func TestDumpKeepsAutoincrementCounter(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewTestDB(t)
	svc := contact.NewService(src)
	var last int64
	for _, name := range []string{"A", "B", "C"} {
		c, err := svc.Create(ctx, &contact.Contact{ContactName: name, Email: name + "@x.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		last = c.ID
	}
	if err := svc.Delete(ctx, last); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var buf bytes.Buffer
	if _, err := backup.Dump(ctx, src, &buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), `INSERT INTO "sqlite_sequence"`) {
		t.Error("dump missing sqlite_sequence rows")
	}

	dst, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "restored.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dst.Close()
	dst.SetMaxOpenConns(1)
	if _, err := dst.Exec(buf.String()); err != nil {
		t.Fatalf("replay dump: %v", err)
	}

	created, err := contact.NewService(dst).Create(ctx, &contact.Contact{ContactName: "D", Email: "d@x.com"})
	if err != nil {
		t.Fatalf("create after restore: %v", err)
	}
	if created.ID != last+1 {
		t.Errorf("expected id %d after restore, got %d", last+1, created.ID)
	}
}
