package bookings

import (
	"context"
	"database/sql"
	"strings"
	"time"

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

// itemInfo is what booking creation needs to know about the target item.
type itemInfo struct {
	ID        int64
	Name      string
	Available bool
	OwnerID   int64
}

func (s *Store) GetItem(ctx context.Context, id int64) (*itemInfo, error) {
	const q = `SELECT id, name, available, owner_id FROM items WHERE id = ?`
	var it itemInfo
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.Available, &it.OwnerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) Insert(ctx context.Context, b *Booking) error {
	const q = `INSERT INTO bookings (item_id, booker_id, start_time, end_time, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		b.ItemID, b.BookerID, db.FormatTime(b.Start), db.FormatTime(b.End), b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*bookingRow, error) {
	const q = `
	SELECT b.id, b.item_id, b.booker_id, b.start_time, b.end_time, b.status,
	       i.name, i.owner_id
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	WHERE b.id = ?`
	var r bookingRow
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.ID, &r.ItemID, &r.BookerID, &r.Start, &r.End, &r.Status,
		&r.ItemName, &r.OwnerID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("booking not found")
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, status, id)
	return err
}

// Query selects one page of classified bookings. OwnerView switches the
// candidate set between "booked by user" and "on items owned by user".
type Query struct {
	OwnerView bool
	UserID    int64
	State     string
	Now       time.Time
	Limit     int
	Offset    int
}

// List runs the state classifier. Ordering is start DESC with id DESC as
// the tie-break so pages are stable.
func (s *Store) List(ctx context.Context, q Query) ([]bookingRow, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT b.id, b.item_id, b.booker_id, b.start_time, b.end_time, b.status,
	       i.name, i.owner_id
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	WHERE `)

	args := []any{}
	if q.OwnerView {
		sb.WriteString(`i.owner_id = ?`)
	} else {
		sb.WriteString(`b.booker_id = ?`)
	}
	args = append(args, q.UserID)

	now := db.FormatTime(q.Now)
	switch q.State {
	case StateAll:
		// no extra filter
	case StateCurrent:
		sb.WriteString(` AND b.start_time <= ? AND b.end_time > ?`)
		args = append(args, now, now)
	case StatePast:
		sb.WriteString(` AND b.end_time < ?`)
		args = append(args, now)
	case StateFuture:
		sb.WriteString(` AND b.start_time > ?`)
		args = append(args, now)
	case StateWaiting, StateRejected:
		sb.WriteString(` AND b.status = ?`)
		args = append(args, q.State)
	}

	sb.WriteString(` ORDER BY b.start_time DESC, b.id DESC LIMIT ? OFFSET ?`)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bookingRow
	for rows.Next() {
		var r bookingRow
		if err := rows.Scan(
			&r.ID, &r.ItemID, &r.BookerID, &r.Start, &r.End, &r.Status,
			&r.ItemName, &r.OwnerID,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
