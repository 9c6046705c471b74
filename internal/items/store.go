package items

import (
	"context"
	"database/sql"
	"time"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/db"

	"shareit/internal/bookings"
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

func (s *Store) UserName(ctx context.Context, id int64) (string, error) {
	const q = `SELECT name FROM users WHERE id = ?`
	var name string
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", apierr.NotFound("user not found")
		}
		return "", err
	}
	return name, nil
}

func (s *Store) Insert(ctx context.Context, it *Item) error {
	const q = `INSERT INTO items (name, description, available, owner_id, request_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id FROM items WHERE id = ?`
	var it Item
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) Update(ctx context.Context, it *Item) error {
	const q = `UPDATE items SET name = ?, description = ?, available = ?, request_id = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.RequestID, it.ID)
	return err
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
	           FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return s.queryItems(ctx, q, ownerID, limit, offset)
}

// ListAvailable feeds the text search; matching happens in the service with
// a Unicode case-folding matcher, which SQL LIKE cannot express.
func (s *Store) ListAvailable(ctx context.Context) ([]Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
	           FROM items WHERE available = ? ORDER BY id`
	return s.queryItems(ctx, q, true)
}

func (s *Store) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// LastBooking returns the approved booking with the greatest start not
// after now, or nil when there is none.
func (s *Store) LastBooking(ctx context.Context, itemID int64, now time.Time) (*BookingInfo, error) {
	const q = `SELECT id, booker_id FROM bookings
	           WHERE item_id = ? AND status = ? AND start_time <= ?
	           ORDER BY start_time DESC, id DESC LIMIT 1`
	return s.bookingInfo(ctx, q, itemID, bookings.StatusApproved, db.FormatTime(now))
}

// NextBooking returns the approved booking with the smallest start after
// now, or nil when there is none.
func (s *Store) NextBooking(ctx context.Context, itemID int64, now time.Time) (*BookingInfo, error) {
	const q = `SELECT id, booker_id FROM bookings
	           WHERE item_id = ? AND status = ? AND start_time > ?
	           ORDER BY start_time ASC, id ASC LIMIT 1`
	return s.bookingInfo(ctx, q, itemID, bookings.StatusApproved, db.FormatTime(now))
}

func (s *Store) bookingInfo(ctx context.Context, q string, args ...any) (*BookingInfo, error) {
	var info BookingInfo
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&info.ID, &info.BookerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// HasFinishedBooking reports whether the user had an approved booking of
// the item that already ended.
func (s *Store) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE item_id = ? AND booker_id = ? AND status = ? AND end_time < ?`
	var n int
	err := s.db.QueryRowContext(ctx, q, itemID, bookerID, bookings.StatusApproved, db.FormatTime(now)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertComment(ctx context.Context, cm *Comment) error {
	const q = `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, cm.Text, cm.ItemID, cm.AuthorID, db.FormatTime(cm.Created))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = id
	return nil
}

func (s *Store) CommentsByItem(ctx context.Context, itemID int64) ([]commentRow, error) {
	const q = `
	SELECT c.id, c.text, c.item_id, c.author_id, c.created, u.name
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.item_id = ?
	ORDER BY c.created DESC, c.id DESC`
	rows, err := s.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []commentRow
	for rows.Next() {
		var r commentRow
		if err := rows.Scan(&r.ID, &r.Text, &r.ItemID, &r.AuthorID, &r.Created, &r.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
