package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/italyna/reservations-api/internal/models"
)

// ErrSlotFull is returned when confirming a reservation would exceed the
// restaurant's total seats for its slot.
var ErrSlotFull = errors.New("slot capacity exhausted")

// ReservationRepository manages persistence for reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Insert persists a new reservation. The insert is all-or-nothing: a failure
// leaves no partial row behind.
func (r *ReservationRepository) Insert(ctx context.Context, reservation *models.Reservation) error {
	const query = `INSERT INTO reservations
(id, guest_name, guest_email, guest_phone, reservation_date, reservation_time, party_size, special_requests, status, table_number, created_at, updated_at)
VALUES (:id, :guest_name, :guest_email, :guest_phone, :reservation_date, :reservation_time, :party_size, :special_requests, :status, :table_number, :created_at, :updated_at)`
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// FindByID fetches a single reservation.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	const query = `SELECT id, guest_name, guest_email, guest_phone, reservation_date, reservation_time, party_size, special_requests, status, table_number, created_at, updated_at
FROM reservations WHERE id = $1`
	var reservation models.Reservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ConfirmedPartySizes returns the party sizes of all confirmed reservations
// at the given date and time. Pending and cancelled rows never count.
func (r *ReservationRepository) ConfirmedPartySizes(ctx context.Context, date, timeOfDay string) ([]int, error) {
	const query = `SELECT party_size FROM reservations
WHERE reservation_date = $1 AND reservation_time = $2 AND status = $3`
	var sizes []int
	if err := r.db.SelectContext(ctx, &sizes, query, date, timeOfDay, models.StatusConfirmed); err != nil {
		return nil, fmt.Errorf("query confirmed reservations: %w", err)
	}
	return sizes, nil
}

// List returns reservations matching filters along with total count.
func (r *ReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	base := "FROM reservations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("reservation_date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(guest_name) LIKE $%d OR LOWER(guest_email) LIKE $%d OR guest_phone LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "reservation_date"
	}
	allowedSorts := map[string]string{
		"reservation_date": "reservation_date",
		"reservation_time": "reservation_time",
		"guest_name":       "guest_name",
		"created_at":       "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "reservation_date"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, guest_name, guest_email, guest_phone, reservation_date, reservation_time, party_size, special_requests, status, table_number, created_at, updated_at %s ORDER BY %s %s, reservation_time ASC LIMIT %d OFFSET %d", base, column, order, size, offset)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	return reservations, total, nil
}

// UpdateStatus moves a reservation to a new status without any capacity
// check. Used for cancel and complete transitions; confirms go through
// ConfirmWithCapacityCheck.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update reservation status: no reservation %s", id)
	}
	return nil
}

// ConfirmWithCapacityCheck flips a pending reservation to confirmed after
// re-checking aggregate capacity inside a single transaction. Decisions for a
// slot are serialized with a per-(date,time) advisory lock, so two concurrent
// confirms cannot both observe enough free seats. Returns ErrSlotFull when
// confirming would push occupied seats past totalSeats.
func (r *ReservationRepository) ConfirmWithCapacityCheck(ctx context.Context, reservation *models.Reservation, totalSeats int, tableNumber *int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin confirm tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	slotKey := reservation.ReservationDate + "|" + reservation.ReservationTime
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, slotKey); err != nil {
		return fmt.Errorf("lock slot %s: %w", slotKey, err)
	}

	var occupied int
	const sumQuery = `SELECT COALESCE(SUM(party_size), 0) FROM reservations
WHERE reservation_date = $1 AND reservation_time = $2 AND status = $3`
	if err := tx.GetContext(ctx, &occupied, sumQuery, reservation.ReservationDate, reservation.ReservationTime, models.StatusConfirmed); err != nil {
		return fmt.Errorf("sum confirmed seats: %w", err)
	}

	if totalSeats > 0 && occupied+reservation.PartySize > totalSeats {
		return ErrSlotFull
	}

	const update = `UPDATE reservations
SET status = $2, table_number = COALESCE($3, table_number), updated_at = $4
WHERE id = $1 AND status = $5`
	result, err := tx.ExecContext(ctx, update, reservation.ID, models.StatusConfirmed, tableNumber, time.Now().UTC(), models.StatusPending)
	if err != nil {
		return fmt.Errorf("confirm reservation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm reservation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("confirm reservation: %s is not pending", reservation.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit confirm tx: %w", err)
	}
	return nil
}

// CreateNotification records that a notification was produced for a
// reservation. Delivery is the external messaging collaborator's job.
func (r *ReservationRepository) CreateNotification(ctx context.Context, notification *models.ReservationNotification) error {
	const query = `INSERT INTO reservation_notifications (id, reservation_id, notification_type, email_sent, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, notification.ID, notification.ReservationID, notification.Type, notification.EmailSent, notification.CreatedAt); err != nil {
		return fmt.Errorf("insert reservation notification: %w", err)
	}
	return nil
}
