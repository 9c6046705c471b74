package requests

import (
	"context"
	"database/sql"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE id = ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Insert(ctx context.Context, r *Request) error {
	const q = `INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, r.Description, r.RequestorID, db.FormatTime(r.Created))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	const q = `SELECT id, description, requestor_id, created FROM requests WHERE id = ?`
	var r Request
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("request not found")
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListByRequestor(ctx context.Context, requestorID int64) ([]Request, error) {
	const q = `SELECT id, description, requestor_id, created
	           FROM requests WHERE requestor_id = ? ORDER BY created, id`
	return s.queryRequests(ctx, q, requestorID)
}

// ListOthers pages through requests created by anyone but the caller,
// newest first.
func (s *Store) ListOthers(ctx context.Context, requestorID int64, limit, offset int) ([]Request, error) {
	const q = `SELECT id, description, requestor_id, created
	           FROM requests WHERE requestor_id <> ?
	           ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`
	return s.queryRequests(ctx, q, requestorID, limit, offset)
}

func (s *Store) queryRequests(ctx context.Context, q string, args ...any) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ItemsByRequest returns the items listed in answer to a request.
func (s *Store) ItemsByRequest(ctx context.Context, requestID int64) ([]offeredItem, error) {
	const q = `SELECT id, name, description, available, request_id
	           FROM items WHERE request_id = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offeredItem
	for rows.Next() {
		var it offeredItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
