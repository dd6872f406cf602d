package demodata_test

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/demodata"
	"winsbygroup.com/leadbook/internal/testutil"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	if err := demodata.Load(ctx, db); err != nil {
		t.Fatalf("Load: %v", err)
	}

	all, err := contact.NewService(db).GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 demo contacts, got %d", len(all))
	}
	if all[0].ContactName != "Ada Lovelace" || all[0].ID != 1 {
		t.Errorf("unexpected first contact %+v", all[0])
	}
	for _, c := range all {
		if err := c.Validate(); err != nil {
			t.Errorf("demo contact %d fails validation: %v", c.ID, err)
		}
	}
}
