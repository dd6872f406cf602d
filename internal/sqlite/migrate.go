package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/GuiaBolso/darwin"
	_ "github.com/mattn/go-sqlite3"
)

// ApplicationID marks a SQLite file as a leadbook database ("LEAD" in ASCII).
const ApplicationID = 0x4C454144

// ErrInvalidDatabase is returned when the file belongs to another application.
var ErrInvalidDatabase = errors.New("not a valid 'leadbook' database")

// migrations lists the schema steps in ascending version order.
// Released steps are checksummed by darwin and must never be edited; add a new
// version instead. Comments may only trail SQL on a line.
var migrations = []darwin.Migration{
	{Version: 1.00, Description: "Set application_id", Script: `
	PRAGMA application_id = 0x4C454144;`},

	{Version: 1.01, Description: "Create Table 'users'", Script: `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL DEFAULT '',
		contact_name TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		engagement_status TEXT NOT NULL DEFAULT ''
	);`},
}

var (
	commentRe    = regexp.MustCompile(`--.*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalize lowercases a script and strips comments and runs of whitespace so
// formatting-only edits keep the same darwin checksum.
func normalize(script string) string {
	s := strings.ToLower(strings.ReplaceAll(script, "/*", "--"))
	s = commentRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func normalizedMigrations() []darwin.Migration {
	out := make([]darwin.Migration, len(migrations))
	for i, m := range migrations {
		m.Script = normalize(m.Script)
		out[i] = m
	}
	return out
}

// appliedVersion returns how many steps have been applied and the highest version.
func appliedVersion(db *sql.DB) (steps int, version float64, err error) {
	var tables int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE tbl_name = 'darwin_migrations';`).Scan(&tables)
	if err != nil || tables == 0 {
		return 0, 0, err
	}
	err = db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(version), 0) FROM darwin_migrations;`).Scan(&steps, &version)
	return steps, version, err
}

// Schema returns the migration scripts for display.
func Schema() string {
	var b strings.Builder
	for _, m := range migrations {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// VerifyApplicationID accepts a leadbook database or an empty one (no tables,
// application_id 0) and rejects anything else with ErrInvalidDatabase.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}
	switch {
	case appID == ApplicationID:
		return nil
	case appID != 0:
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tables int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tables > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations brings an open database up to the latest schema version.
func RunMigrations(db *sql.DB) error {
	if err := VerifyApplicationID(db); err != nil {
		return err
	}

	steps, before, err := appliedVersion(db)
	if err != nil {
		return err
	}

	ms := normalizedMigrations()
	latest := ms[len(ms)-1].Version
	if steps == len(ms) && before == latest {
		log.Printf("Database version %.2f is current", before)
		return nil
	}

	infoChan := make(chan darwin.MigrationInfo, len(ms))
	d := darwin.New(darwin.NewGenericDriver(db, darwin.SqliteDialect{}), ms, infoChan)
	migrateErr := d.Migrate()
	close(infoChan)

	var prog strings.Builder
	for info := range infoChan {
		_, _ = fmt.Fprintf(&prog, "v%.2f: %q (%s) error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	if migrateErr != nil {
		_, after, _ := appliedVersion(db)
		log.Printf("migration failed (was v%.2f now v%.2f): %v", before, after, migrateErr)
		return fmt.Errorf("migration error: %w\n%s", migrateErr, prog.String())
	}

	_, after, err := appliedVersion(db)
	if err != nil {
		return err
	}
	log.Printf("Database version %.2f (migrated from %.2f)", after, before)
	return nil
}
