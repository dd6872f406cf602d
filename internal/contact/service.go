package contact

import (
	"context"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/leadbook/internal/metrics"
)

type Service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) GetAll(ctx context.Context) ([]Contact, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Create validates and inserts a single contact and returns it with its new id.
func (s *Service) Create(ctx context.Context, c *Contact) (*Contact, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	created := *c
	created.ID = id
	return &created, nil
}

// BulkCreate inserts all contacts as-is, without required-field checks, and
// returns the number of rows inserted.
func (s *Service) BulkCreate(ctx context.Context, cs []Contact) (int64, error) {
	if len(cs) == 0 {
		return 0, ErrEmptyBatch
	}

	var inserted int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		inserted, err = s.repo.BulkCreate(ctx, tx, cs)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.ContactsImported.Add(float64(inserted))
	return inserted, nil
}

// Update overwrites all fields of the contact with c.ID.
func (s *Service) Update(ctx context.Context, c *Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, c)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}
