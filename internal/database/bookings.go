package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingDetailColumns = `b.id, b.item_id, b.booker_id, b.status, b.start_date, b.end_date,
       b.created_at, b.updated_at, i.name, i.description, i.owner_id, u.email, u.name`

const bookingDetailFrom = ` FROM bookings b
       JOIN items i ON i.id = b.item_id
       JOIN users u ON u.id = b.booker_id`

func scanBookingDetail(row interface{ Scan(...any) error }) (*models.BookingDetail, error) {
	var d models.BookingDetail
	err := row.Scan(
		&d.ID, &d.ItemID, &d.BookerID, &d.Status, &d.Start, &d.End,
		&d.CreatedAt, &d.UpdatedAt,
		&d.ItemName, &d.ItemDescription, &d.ItemOwnerID,
		&d.BookerEmail, &d.BookerName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, status, start_date, end_date, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID, booking.BookerID, booking.Status,
		booking.Start.UTC(), booking.End.UTC(), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBookingDetail(ctx context.Context, id int64) (*models.BookingDetail, error) {
	query := `SELECT ` + bookingDetailColumns + bookingDetailFrom + ` WHERE b.id = ?`
	detail, err := scanBookingDetail(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return detail, nil
}

// DecideBooking sets the terminal status of a WAITING booking. The owner
// check and the status check run inside one transaction so that two
// concurrent decisions cannot both succeed.
func (db *DB) DecideBooking(ctx context.Context, bookingID, ownerID int64, approve bool) (*models.BookingDetail, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingDetailColumns + bookingDetailFrom + ` WHERE b.id = ?`
	detail, err := scanBookingDetail(tx.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking in tx: %w", err)
	}

	if detail.ItemOwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	if detail.Status != models.StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, bookingID,
	); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	detail.Status = status
	detail.UpdatedAt = now
	return detail, nil
}

// ListBookingsForBooker returns the booker's bookings matching the state
// filter, newest start first.
func (db *DB) ListBookingsForBooker(ctx context.Context, bookerID int64, state models.State, now time.Time, limit, offset int) ([]models.BookingDetail, error) {
	return db.listBookings(ctx, `b.booker_id = ?`, bookerID, state, now, limit, offset)
}

// ListBookingsForOwner returns bookings of all items owned by the user,
// newest start first.
func (db *DB) ListBookingsForOwner(ctx context.Context, ownerID int64, state models.State, now time.Time, limit, offset int) ([]models.BookingDetail, error) {
	return db.listBookings(ctx, `i.owner_id = ?`, ownerID, state, now, limit, offset)
}

func (db *DB) listBookings(ctx context.Context, scope string, scopeID int64, state models.State, now time.Time, limit, offset int) ([]models.BookingDetail, error) {
	args := []any{scopeID}
	clause := ""

	switch state {
	case models.StateAll:
	case models.StateCurrent:
		clause = ` AND datetime(b.start_date) <= datetime(?) AND datetime(b.end_date) >= datetime(?)`
		args = append(args, now.UTC(), now.UTC())
	case models.StateFuture:
		clause = ` AND datetime(b.start_date) > datetime(?)`
		args = append(args, now.UTC())
	case models.StatePast:
		clause = ` AND datetime(b.end_date) < datetime(?)`
		args = append(args, now.UTC())
	case models.StateWaiting:
		clause = ` AND b.status = ?`
		args = append(args, models.StatusWaiting)
	case models.StateRejected:
		clause = ` AND b.status = ?`
		args = append(args, models.StatusRejected)
	default:
		return nil, fmt.Errorf("unsupported state filter: %s", state)
	}

	query := `SELECT ` + bookingDetailColumns + bookingDetailFrom +
		` WHERE ` + scope + clause +
		` ORDER BY datetime(b.start_date) DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// LastBookingForItem returns the item's booking with the latest start before
// now, or nil when there is none.
func (db *DB) LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, status, start_date, end_date, created_at, updated_at
              FROM bookings
              WHERE item_id = ? AND datetime(start_date) < datetime(?)
              ORDER BY datetime(start_date) DESC LIMIT 1`
	return db.oneBooking(ctx, query, itemID, now.UTC())
}

// NextBookingForItem returns the item's booking with the earliest start after
// now, or nil when there is none.
func (db *DB) NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, status, start_date, end_date, created_at, updated_at
              FROM bookings
              WHERE item_id = ? AND datetime(start_date) > datetime(?)
              ORDER BY datetime(start_date) ASC LIMIT 1`
	return db.oneBooking(ctx, query, itemID, now.UTC())
}

func (db *DB) oneBooking(ctx context.Context, query string, args ...any) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Status, &b.Start, &b.End, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// HasPastApprovedBooking reports whether the user has at least one APPROVED
// booking of the item that already ended. Gates comment creation.
func (db *DB) HasPastApprovedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS(
                SELECT 1 FROM bookings
                WHERE booker_id = ? AND item_id = ? AND status = ? AND datetime(end_date) < datetime(?)
              )`
	var exists bool
	err := db.QueryRowContext(ctx, query, userID, itemID, models.StatusApproved, now.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return exists, nil
}
