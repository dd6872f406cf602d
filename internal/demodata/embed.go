// Package demodata seeds a new database with sample contacts.
package demodata

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
)

//go:embed sample.sql
var sampleSQL string

// Load inserts the sample contacts. Call it only on a freshly created,
// migrated database.
func Load(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, sampleSQL)
	return err
}
