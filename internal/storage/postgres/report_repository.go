package postgres

import (
	"context"
	"fmt"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/app"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository runs the aggregation queries behind the organizer
// reports. Every statement exists in exactly two fixed variants, all-events
// and single-event, so parameter positions never shift at runtime.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) EventOwner(ctx context.Context, eventID int64) (int64, error) {
	const query = `SELECT organizer_id FROM events WHERE id = $1`
	var owner int64
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&owner); err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("event owner: %w", err)
	}
	return owner, nil
}

func (r *ReportRepository) EventSummary(ctx context.Context, scope app.ReportScope) (domain.EventSummary, error) {
	const all = `
SELECT
	COUNT(*),
	COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN starts_at > $4 THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN ends_at <= $4 THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(max_attendees), 0),
	COALESCE(AVG(max_attendees), 0)
FROM events
WHERE organizer_id = $1 AND created_at >= $2 AND created_at < $3`
	const byEvent = all + ` AND id = $5`

	query := all
	args := []any{scope.OrganizerID, scope.From, scope.To, scope.Now}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	var s domain.EventSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.TotalEvents,
		&s.DraftEvents,
		&s.PendingEvents,
		&s.ApprovedEvents,
		&s.RejectedEvents,
		&s.UpcomingEvents,
		&s.PastEvents,
		&s.TotalCapacity,
		&s.AvgCapacity,
	)
	if err != nil {
		return domain.EventSummary{}, fmt.Errorf("event summary: %w", err)
	}
	return s, nil
}

func (r *ReportRepository) EventDetails(ctx context.Context, scope app.ReportScope) ([]domain.EventDetail, error) {
	const all = `
SELECT
	e.id, e.title, e.status, e.starts_at, e.max_attendees,
	COUNT(t.id),
	COALESCE(SUM(CASE WHEN t.status = 'confirmed' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
WHERE e.organizer_id = $1 AND e.created_at >= $2 AND e.created_at < $3`
	const tail = `
GROUP BY e.id, e.title, e.status, e.starts_at, e.max_attendees
ORDER BY e.starts_at ASC`
	const byEvent = all + ` AND e.id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("event details: %w", err)
	}
	defer rows.Close()

	var details []domain.EventDetail
	for rows.Next() {
		var d domain.EventDetail
		if err := rows.Scan(&d.EventID, &d.Title, &d.Status, &d.StartsAt, &d.MaxAttendees, &d.TicketsSold, &d.Confirmed, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan event detail: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event details: %w", rows.Err())
	}
	return details, nil
}

func (r *ReportRepository) RevenueSummary(ctx context.Context, scope app.ReportScope) (domain.RevenueSummary, error) {
	const all = `
SELECT
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'pending' THEN t.price_paid ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'pending' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'failed' THEN t.price_paid ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'failed' THEN 1 ELSE 0 END), 0)
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const byEvent = all + ` AND t.event_id = $4`

	query := all
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	var s domain.RevenueSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.TotalRevenue,
		&s.CompletedTransactions,
		&s.PendingRevenue,
		&s.PendingTransactions,
		&s.FailedRevenue,
		&s.FailedTransactions,
	)
	if err != nil {
		return domain.RevenueSummary{}, fmt.Errorf("revenue summary: %w", err)
	}
	return s, nil
}

func (r *ReportRepository) DailyRevenue(ctx context.Context, scope app.ReportScope) ([]domain.DailyRevenuePoint, error) {
	const all = `
SELECT DATE(t.created_at), COALESCE(SUM(t.price_paid), 0), COUNT(*)
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3
	AND t.payment_status = 'completed'`
	const tail = `
GROUP BY DATE(t.created_at)
ORDER BY DATE(t.created_at) ASC`
	const byEvent = all + ` AND t.event_id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	defer rows.Close()

	var points []domain.DailyRevenuePoint
	for rows.Next() {
		var p domain.DailyRevenuePoint
		if err := rows.Scan(&p.Day, &p.Revenue, &p.Transactions); err != nil {
			return nil, fmt.Errorf("scan daily revenue: %w", err)
		}
		points = append(points, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate daily revenue: %w", rows.Err())
	}
	return points, nil
}

func (r *ReportRepository) PaymentMethodBreakdown(ctx context.Context, scope app.ReportScope) ([]domain.PaymentMethodShare, error) {
	const all = `
SELECT t.payment_method, COALESCE(SUM(t.price_paid), 0), COUNT(*)
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3
	AND t.payment_status = 'completed'`
	const tail = `
GROUP BY t.payment_method
ORDER BY SUM(t.price_paid) DESC`
	const byEvent = all + ` AND t.event_id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("payment methods: %w", err)
	}
	defer rows.Close()

	var methods []domain.PaymentMethodShare
	for rows.Next() {
		var m domain.PaymentMethodShare
		if err := rows.Scan(&m.Method, &m.Revenue, &m.Transactions); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate payment methods: %w", rows.Err())
	}
	return methods, nil
}

func (r *ReportRepository) EventRevenueRanking(ctx context.Context, scope app.ReportScope) ([]domain.EventRevenue, error) {
	const all = `
SELECT
	e.id, e.title,
	COALESCE(SUM(CASE WHEN t.id IS NOT NULL THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(t.price_paid), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
	AND t.payment_status = 'completed'
	AND t.created_at >= $2 AND t.created_at < $3
WHERE e.organizer_id = $1`
	const tail = `
GROUP BY e.id, e.title
ORDER BY COALESCE(SUM(t.price_paid), 0) DESC`
	const byEvent = all + ` AND e.id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("event revenue ranking: %w", err)
	}
	defer rows.Close()

	var ranking []domain.EventRevenue
	for rows.Next() {
		var e domain.EventRevenue
		if err := rows.Scan(&e.EventID, &e.Title, &e.TicketsSold, &e.Revenue); err != nil {
			return nil, fmt.Errorf("scan event revenue: %w", err)
		}
		ranking = append(ranking, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event revenue ranking: %w", rows.Err())
	}
	return ranking, nil
}

func (r *ReportRepository) AttendeeSummary(ctx context.Context, scope app.ReportScope) (domain.AttendeeSummary, error) {
	const all = `
SELECT
	COUNT(DISTINCT t.user_id),
	COUNT(t.id),
	COALESCE(SUM(CASE WHEN t.status = 'confirmed' THEN 1 ELSE 0 END), 0),
	AVG(DATE_PART('year', AGE(u.date_of_birth)))
FROM tickets t
JOIN events e ON e.id = t.event_id
JOIN users u ON u.id = t.user_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const byEvent = all + ` AND t.event_id = $4`

	query := all
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	var s domain.AttendeeSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.UniqueAttendees,
		&s.TotalRegistrations,
		&s.ConfirmedRegistrations,
		&s.AverageAge,
	)
	if err != nil {
		return domain.AttendeeSummary{}, fmt.Errorf("attendee summary: %w", err)
	}

	genders, err := r.genderCounts(ctx, scope)
	if err != nil {
		return domain.AttendeeSummary{}, err
	}
	s.GenderCounts = genders
	return s, nil
}

func (r *ReportRepository) genderCounts(ctx context.Context, scope app.ReportScope) ([]domain.GenderCount, error) {
	const all = `
SELECT COALESCE(NULLIF(u.gender, ''), 'unspecified'), COUNT(DISTINCT t.user_id)
FROM tickets t
JOIN events e ON e.id = t.event_id
JOIN users u ON u.id = t.user_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const tail = `
GROUP BY COALESCE(NULLIF(u.gender, ''), 'unspecified')
ORDER BY COUNT(DISTINCT t.user_id) DESC`
	const byEvent = all + ` AND t.event_id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("gender counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.GenderCount
	for rows.Next() {
		var g domain.GenderCount
		if err := rows.Scan(&g.Gender, &g.Count); err != nil {
			return nil, fmt.Errorf("scan gender count: %w", err)
		}
		counts = append(counts, g)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate gender counts: %w", rows.Err())
	}
	return counts, nil
}

func (r *ReportRepository) RegistrationTimeline(ctx context.Context, scope app.ReportScope) ([]domain.RegistrationPoint, error) {
	const all = `
SELECT DATE(t.created_at), COUNT(*)
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const tail = `
GROUP BY DATE(t.created_at)
ORDER BY DATE(t.created_at) ASC`
	const byEvent = all + ` AND t.event_id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("registration timeline: %w", err)
	}
	defer rows.Close()

	var points []domain.RegistrationPoint
	for rows.Next() {
		var p domain.RegistrationPoint
		if err := rows.Scan(&p.Day, &p.Registrations); err != nil {
			return nil, fmt.Errorf("scan registration point: %w", err)
		}
		points = append(points, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate registration timeline: %w", rows.Err())
	}
	return points, nil
}

func (r *ReportRepository) TopAttendees(ctx context.Context, scope app.ReportScope, limit int) ([]domain.TopAttendee, error) {
	const all = `
SELECT
	u.id, u.name, u.email,
	COUNT(DISTINCT t.event_id),
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0)
FROM tickets t
JOIN events e ON e.id = t.event_id
JOIN users u ON u.id = t.user_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const tail = `
GROUP BY u.id, u.name, u.email
ORDER BY COUNT(DISTINCT t.event_id) DESC,
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0) DESC
LIMIT $4`
	const byEvent = all + ` AND t.event_id = $5` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To, limit}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top attendees: %w", err)
	}
	defer rows.Close()

	var attendees []domain.TopAttendee
	for rows.Next() {
		var a domain.TopAttendee
		if err := rows.Scan(&a.UserID, &a.Name, &a.Email, &a.EventsAttended, &a.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan top attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate top attendees: %w", rows.Err())
	}
	return attendees, nil
}

func (r *ReportRepository) EventPopularity(ctx context.Context, scope app.ReportScope) ([]domain.EventPopularity, error) {
	const all = `
SELECT e.id, e.title, e.max_attendees, COUNT(t.id), COUNT(DISTINCT t.user_id)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
	AND t.created_at >= $2 AND t.created_at < $3
WHERE e.organizer_id = $1`
	const tail = `
GROUP BY e.id, e.title, e.max_attendees
ORDER BY COUNT(t.id) DESC`
	const byEvent = all + ` AND e.id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("event popularity: %w", err)
	}
	defer rows.Close()

	var events []domain.EventPopularity
	for rows.Next() {
		var e domain.EventPopularity
		if err := rows.Scan(&e.EventID, &e.Title, &e.MaxAttendees, &e.Registrations, &e.UniqueAttendees); err != nil {
			return nil, fmt.Errorf("scan event popularity: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event popularity: %w", rows.Err())
	}
	return events, nil
}

func (r *ReportRepository) EventPerformance(ctx context.Context, scope app.ReportScope) ([]domain.EventPerformance, error) {
	const all = `
SELECT
	e.id, e.title, e.max_attendees,
	COUNT(t.id),
	COALESCE(SUM(CASE WHEN t.status = 'confirmed' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
WHERE e.organizer_id = $1 AND e.created_at >= $2 AND e.created_at < $3`
	const tail = `
GROUP BY e.id, e.title, e.max_attendees
ORDER BY e.starts_at ASC`
	const byEvent = all + ` AND e.id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("event performance: %w", err)
	}
	defer rows.Close()

	var events []domain.EventPerformance
	for rows.Next() {
		var e domain.EventPerformance
		if err := rows.Scan(&e.EventID, &e.Title, &e.MaxAttendees, &e.TotalRegistrations, &e.Confirmed, &e.Revenue); err != nil {
			return nil, fmt.Errorf("scan event performance: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event performance: %w", rows.Err())
	}
	return events, nil
}

func (r *ReportRepository) MonthlyTrend(ctx context.Context, scope app.ReportScope) ([]domain.MonthlyTrendPoint, error) {
	const all = `
SELECT
	TO_CHAR(DATE_TRUNC('month', t.created_at), 'YYYY-MM'),
	COUNT(DISTINCT t.event_id),
	COUNT(t.id),
	COALESCE(SUM(CASE WHEN t.payment_status = 'completed' THEN t.price_paid ELSE 0 END), 0)
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE e.organizer_id = $1 AND t.created_at >= $2 AND t.created_at < $3`
	const tail = `
GROUP BY DATE_TRUNC('month', t.created_at)
ORDER BY DATE_TRUNC('month', t.created_at) ASC`
	const byEvent = all + ` AND t.event_id = $4` + tail

	query := all + tail
	args := []any{scope.OrganizerID, scope.From, scope.To}
	if scope.EventID != 0 {
		query = byEvent
		args = append(args, scope.EventID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	defer rows.Close()

	var points []domain.MonthlyTrendPoint
	for rows.Next() {
		var p domain.MonthlyTrendPoint
		if err := rows.Scan(&p.Month, &p.Events, &p.TicketsSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan monthly trend: %w", err)
		}
		points = append(points, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate monthly trend: %w", rows.Err())
	}
	return points, nil
}
