package users

import (
	"context"
	"database/sql"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/db"
)

type Store struct {
	db db.DBTX
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// withTx rebinds the store's queries to a transaction.
func (s *Store) withTx(tx db.DBTX) *Store { return &Store{db: tx} }

func (s *Store) Insert(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Name, u.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT id, name, email FROM users WHERE id = ?`
	var u User
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT id, name, email FROM users ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, u *User) error {
	const q = `UPDATE users SET name = ?, email = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, u.Name, u.Email, u.ID)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

// EmailTaken reports whether another user already holds the address.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, email, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
