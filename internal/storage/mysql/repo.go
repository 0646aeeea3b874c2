package mysql

import (
	"context"
	"database/sql"
	"errors"

	"horizon_web/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

type Repo struct{ db *sql.DB }

var _ domain.QuoteRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateQuote(ctx context.Context, q domain.QuoteRequest) error {
	_, err := r.db.ExecContext(ctx, insertQuoteSQL,
		q.ID,
		q.Name,
		q.Email,
		q.Phone,
		q.Service,
		q.BudgetRange,
		q.ProjectDescription,
		valStr(q.FileName),
		valInt64(q.FileSize),
		q.Status,
		q.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetQuote(ctx context.Context, id string) (domain.QuoteRequest, error) {
	row := r.db.QueryRowContext(ctx, getQuoteSQL, id)

	var q domain.QuoteRequest
	var fileName sql.NullString
	var fileSize sql.NullInt64
	if err := row.Scan(
		&q.ID,
		&q.Name,
		&q.Email,
		&q.Phone,
		&q.Service,
		&q.BudgetRange,
		&q.ProjectDescription,
		&fileName,
		&fileSize,
		&q.Status,
		&q.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.QuoteRequest{}, domain.ErrNotFound
		}
		return domain.QuoteRequest{}, err
	}
	if fileName.Valid {
		q.FileName = fileName.String
	}
	if fileSize.Valid {
		q.FileSize = fileSize.Int64
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return q, nil
}

// UpdateQuoteStatus moves a request along pending, contacted, quoted and
// completed. Unknown ids report domain.ErrNotFound.
func (r *Repo) UpdateQuoteStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, updateQuoteStatusSQL, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
