package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// maxBatchRows keeps a single multi-row INSERT well below SQLite's
// bound-variable limit (len(Fields) variables per row).
const maxBatchRows = 1000

type Repository interface {
	GetAll(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id int64) (*Contact, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Contact) (int64, error)
	BulkCreate(ctx context.Context, tx *sqlx.Tx, cs []Contact) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, c *Contact) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetAll(ctx context.Context) ([]Contact, error) {
	out := []Contact{}
	err := r.db.SelectContext(ctx, &out, getAllContactsSQL)
	if err != nil {
		return nil, fmt.Errorf("get all contacts: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Contact, error) {
	var c Contact
	err := r.db.GetContext(ctx, &c, getContactSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, countContactsSQL); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Contact) (int64, error) {
	res, err := tx.ExecContext(ctx, createContactSQL, c.Values()...)
	if err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) BulkCreate(ctx context.Context, tx *sqlx.Tx, cs []Contact) (int64, error) {
	var inserted int64
	for start := 0; start < len(cs); start += maxBatchRows {
		end := min(start+maxBatchRows, len(cs))
		res, err := tx.NamedExecContext(ctx, bulkCreateContactsSQL, cs[start:end])
		if err != nil {
			return 0, fmt.Errorf("bulk create contacts: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("bulk create contacts: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, c *Contact) error {
	args := append(c.Values(), c.ID)
	res, err := tx.ExecContext(ctx, updateContactSQL, args...)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectRow(res, "update contact")
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteContactSQL, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectRow(res, "delete contact")
}

// expectRow turns a zero-row result into ErrNotFound.
func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
