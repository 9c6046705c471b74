package bookings

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/db/dbtest"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	conn := dbtest.New(t)
	svc := NewService(conn)
	svc.clock = fixedClock{t: testNow}
	return svc, conn
}

func seedUser(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()
	res, err := conn.Exec(`INSERT INTO users (name, email) VALUES (?, ?)`, name, name+"@example.com")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedItem(t *testing.T, conn *sql.DB, ownerID int64, name string, available bool) int64 {
	t.Helper()
	res, err := conn.Exec(
		`INSERT INTO items (name, description, available, owner_id) VALUES (?, ?, ?, ?)`,
		name, name+" description", available, ownerID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func timeptr(t time.Time) *time.Time { return &t }

func TestAddBooking(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	item := seedItem(t, conn, owner, "drill", true)

	start := testNow.Add(24 * time.Hour)
	end := testNow.Add(48 * time.Hour)
	b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
		ItemID: item, Start: timeptr(start), End: timeptr(end),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, booker, b.Booker.ID)
	assert.Equal(t, item, b.Item.ID)
	assert.Equal(t, "drill", b.Item.Name)
}

func TestAddBookingTimeValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	item := seedItem(t, conn, owner, "drill", true)

	point := testNow.Add(time.Hour)
	cases := []struct {
		name       string
		start, end *time.Time
	}{
		{"nil start", nil, timeptr(point)},
		{"nil end", timeptr(point), nil},
		{"end before start", timeptr(point.Add(time.Hour)), timeptr(point)},
		{"zero duration", timeptr(point), timeptr(point)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
				ItemID: item, Start: tc.start, End: tc.end,
			})
			require.Error(t, err)
			assert.Equal(t, 400, apierr.HTTPStatus(err))
		})
	}
}

func TestAddBookingRejections(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	available := seedItem(t, conn, owner, "drill", true)
	unavailable := seedItem(t, conn, owner, "saw", false)

	start := timeptr(testNow.Add(time.Hour))
	end := timeptr(testNow.Add(2 * time.Hour))

	t.Run("unavailable item", func(t *testing.T) {
		_, err := svc.AddBooking(ctx, booker, CreateBookingRequest{ItemID: unavailable, Start: start, End: end})
		assert.Equal(t, 400, apierr.HTTPStatus(err))
	})
	t.Run("missing item", func(t *testing.T) {
		_, err := svc.AddBooking(ctx, booker, CreateBookingRequest{ItemID: 999, Start: start, End: end})
		assert.Equal(t, 404, apierr.HTTPStatus(err))
	})
	t.Run("own item", func(t *testing.T) {
		_, err := svc.AddBooking(ctx, owner, CreateBookingRequest{ItemID: available, Start: start, End: end})
		assert.Equal(t, 404, apierr.HTTPStatus(err))
	})
	t.Run("missing booker", func(t *testing.T) {
		_, err := svc.AddBooking(ctx, 999, CreateBookingRequest{ItemID: available, Start: start, End: end})
		assert.Equal(t, 404, apierr.HTTPStatus(err))
	})
}

func TestApprove(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	item := seedItem(t, conn, owner, "drill", true)

	create := func(t *testing.T) int64 {
		b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
			ItemID: item,
			Start:  timeptr(testNow.Add(time.Hour)),
			End:    timeptr(testNow.Add(2 * time.Hour)),
		})
		require.NoError(t, err)
		return b.ID
	}

	t.Run("approve", func(t *testing.T) {
		id := create(t)
		b, err := svc.Approve(ctx, owner, id, true)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("reject", func(t *testing.T) {
		id := create(t)
		b, err := svc.Approve(ctx, owner, id, false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, b.Status)
	})

	t.Run("second decision fails", func(t *testing.T) {
		id := create(t)
		_, err := svc.Approve(ctx, owner, id, true)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, owner, id, false)
		assert.Equal(t, 400, apierr.HTTPStatus(err))
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		id := create(t)
		_, err := svc.Approve(ctx, booker, id, true)
		assert.Equal(t, 404, apierr.HTTPStatus(err))
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := svc.Approve(ctx, owner, 999, true)
		assert.Equal(t, 404, apierr.HTTPStatus(err))
	})
}

func TestGetBookingVisibility(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	stranger := seedUser(t, conn, "stranger")
	item := seedItem(t, conn, owner, "drill", true)

	b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
		ItemID: item,
		Start:  timeptr(testNow.Add(time.Hour)),
		End:    timeptr(testNow.Add(2 * time.Hour)),
	})
	require.NoError(t, err)

	for _, caller := range []int64{booker, owner} {
		got, err := svc.GetBooking(ctx, caller, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = svc.GetBooking(ctx, stranger, b.ID)
	assert.Equal(t, 404, apierr.HTTPStatus(err))
}

// seedClassifierSet creates one booking in each temporal bucket relative to
// testNow plus a rejected one, and returns their ids keyed by bucket.
func seedClassifierSet(t *testing.T, svc *Service, conn *sql.DB, owner, booker, item int64) map[string]int64 {
	t.Helper()
	ctx := context.Background()

	add := func(start, end time.Time) int64 {
		b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
			ItemID: item, Start: timeptr(start), End: timeptr(end),
		})
		require.NoError(t, err)
		return b.ID
	}

	ids := map[string]int64{
		"past":     add(testNow.Add(-48*time.Hour), testNow.Add(-24*time.Hour)),
		"current":  add(testNow.Add(-time.Hour), testNow.Add(time.Hour)),
		"future":   add(testNow.Add(24*time.Hour), testNow.Add(48*time.Hour)),
		"rejected": add(testNow.Add(72*time.Hour), testNow.Add(96*time.Hour)),
	}
	_, err := svc.Approve(ctx, owner, ids["past"], true)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, owner, ids["rejected"], false)
	require.NoError(t, err)
	return ids
}

func TestListForBookerStates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	item := seedItem(t, conn, owner, "drill", true)
	ids := seedClassifierSet(t, svc, conn, owner, booker, item)

	collect := func(state string) []int64 {
		list, err := svc.ListForBooker(ctx, booker, state, 0, 10)
		require.NoError(t, err)
		out := make([]int64, 0, len(list))
		for _, b := range list {
			out = append(out, b.ID)
		}
		return out
	}

	// ALL is ordered by start descending.
	assert.Equal(t, []int64{ids["rejected"], ids["future"], ids["current"], ids["past"]}, collect(StateAll))
	assert.Equal(t, []int64{ids["current"]}, collect(StateCurrent))
	assert.Equal(t, []int64{ids["past"]}, collect(StatePast))
	assert.Equal(t, []int64{ids["rejected"], ids["future"]}, collect(StateFuture))
	assert.Equal(t, []int64{ids["future"], ids["current"]}, collect(StateWaiting))
	assert.Equal(t, []int64{ids["rejected"]}, collect(StateRejected))
}

func TestListForOwner(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	other := seedUser(t, conn, "other")
	item := seedItem(t, conn, owner, "drill", true)
	otherItem := seedItem(t, conn, other, "saw", true)

	b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
		ItemID: item,
		Start:  timeptr(testNow.Add(time.Hour)),
		End:    timeptr(testNow.Add(2 * time.Hour)),
	})
	require.NoError(t, err)
	_, err = svc.AddBooking(ctx, booker, CreateBookingRequest{
		ItemID: otherItem,
		Start:  timeptr(testNow.Add(time.Hour)),
		End:    timeptr(testNow.Add(2 * time.Hour)),
	})
	require.NoError(t, err)

	list, err := svc.ListForOwner(ctx, owner, StateAll, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	// An owner with no items gets an empty list, not an error.
	list, err = svc.ListForOwner(ctx, booker, StateAll, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	booker := seedUser(t, conn, "booker")

	_, err := svc.ListForBooker(ctx, booker, "PENDING", 0, 10)
	require.Error(t, err)
	assert.Equal(t, 400, apierr.HTTPStatus(err))
	assert.Contains(t, err.Error(), "Unknown state: PENDING")

	_, err = svc.ListForBooker(ctx, booker, StateAll, -1, 10)
	assert.Equal(t, 400, apierr.HTTPStatus(err))

	_, err = svc.ListForBooker(ctx, booker, StateAll, 0, 0)
	assert.Equal(t, 400, apierr.HTTPStatus(err))

	_, err = svc.ListForBooker(ctx, 999, StateAll, 0, 10)
	assert.Equal(t, 404, apierr.HTTPStatus(err))
}

func TestListPagination(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner")
	booker := seedUser(t, conn, "booker")
	item := seedItem(t, conn, owner, "drill", true)

	var ids []int64
	for i := 0; i < 5; i++ {
		b, err := svc.AddBooking(ctx, booker, CreateBookingRequest{
			ItemID: item,
			Start:  timeptr(testNow.Add(time.Duration(i+1) * 24 * time.Hour)),
			End:    timeptr(testNow.Add(time.Duration(i+1)*24*time.Hour + time.Hour)),
		})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	// Newest start first: ids[4] ids[3] ids[2] ids[1] ids[0].

	page, err := svc.ListForBooker(ctx, booker, StateAll, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	// from=3 size=2 truncates to page 1, the same as from=2.
	page, err = svc.ListForBooker(ctx, booker, StateAll, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = svc.ListForBooker(ctx, booker, StateAll, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
}
