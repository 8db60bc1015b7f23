package domain

import "time"

type ReportType string

const (
	ReportOverview    ReportType = "overview"
	ReportRevenue     ReportType = "revenue"
	ReportAttendees   ReportType = "attendees"
	ReportPerformance ReportType = "performance"
)

// ParseReportType coerces unknown values to the overview report. The second
// return value lets callers log the fallback.
func ParseReportType(raw string) (ReportType, bool) {
	switch ReportType(raw) {
	case ReportOverview, ReportRevenue, ReportAttendees, ReportPerformance:
		return ReportType(raw), true
	}
	return ReportOverview, false
}

type ReportFormat string

const (
	FormatWeb   ReportFormat = "web"
	FormatCSV   ReportFormat = "csv"
	FormatExcel ReportFormat = "excel"
	FormatPDF   ReportFormat = "pdf"
)

// ParseReportFormat coerces unknown values to the web (structured) format.
func ParseReportFormat(raw string) (ReportFormat, bool) {
	switch ReportFormat(raw) {
	case FormatWeb, FormatCSV, FormatExcel, FormatPDF:
		return ReportFormat(raw), true
	}
	return FormatWeb, false
}

// DateRange is an inclusive calendar-date window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CurrentMonth returns the first through last day of now's month.
func CurrentMonth(now time.Time) DateRange {
	year, month, _ := now.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return DateRange{Start: start, End: end}
}

func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// Performance ratings, evaluated high-to-low, first match wins.
const (
	RatingExcellent     = "Excellent"
	RatingGood          = "Good"
	RatingAverage       = "Average"
	RatingPoor          = "Poor"
	RatingNotApplicable = "N/A"
)

// Rating classifies an event by confirmed attendance as a fraction of
// capacity. Zero capacity is not classifiable.
func Rating(confirmed, maxAttendees int) string {
	pct, ok := Utilization(confirmed, maxAttendees)
	if !ok {
		return RatingNotApplicable
	}
	switch {
	case pct >= 80:
		return RatingExcellent
	case pct >= 60:
		return RatingGood
	case pct >= 30:
		return RatingAverage
	default:
		return RatingPoor
	}
}

// Utilization returns confirmed/maxAttendees as a percentage. The boolean is
// false when maxAttendees is zero or negative, meaning not applicable.
func Utilization(confirmed, maxAttendees int) (float64, bool) {
	if maxAttendees <= 0 {
		return 0, false
	}
	return float64(confirmed) / float64(maxAttendees) * 100, true
}

// Section names used as Report.Omitted keys and export sheet titles.
const (
	SectionEventSummary         = "event_summary"
	SectionEventDetails         = "event_details"
	SectionRevenueSummary       = "revenue_summary"
	SectionDailyRevenue         = "daily_revenue"
	SectionPaymentMethods       = "payment_methods"
	SectionRevenueRanking       = "event_revenue_ranking"
	SectionAttendeeSummary      = "attendee_summary"
	SectionRegistrationTimeline = "registration_timeline"
	SectionTopAttendees         = "top_attendees"
	SectionEventPopularity      = "event_popularity"
	SectionPerformanceSummary   = "performance_summary"
	SectionEventPerformance     = "event_performance"
	SectionMonthlyTrend         = "monthly_trend"
)

// Report is the immutable result of one aggregation run. Exactly one of the
// per-type payloads is populated, matching Type. Sections whose query failed
// are listed in Omitted and left at their zero value.
type Report struct {
	Type        ReportType
	OrganizerID int64
	EventID     int64 // 0 means all events
	Range       DateRange
	GeneratedAt time.Time

	Overview    *OverviewReport
	Revenue     *RevenueReport
	Attendees   *AttendeesReport
	Performance *PerformanceReport

	Omitted []string
}

type OverviewReport struct {
	Summary      EventSummary
	EventDetails []EventDetail
}

// EventSummary counts the organizer's events by status and schedule.
type EventSummary struct {
	TotalEvents    int
	DraftEvents    int
	PendingEvents  int
	ApprovedEvents int
	RejectedEvents int
	UpcomingEvents int
	PastEvents     int
	TotalCapacity  int
	AvgCapacity    float64
}

// EventDetail is one row of the overview table. CapacityPct is nil when the
// event has no capacity configured.
type EventDetail struct {
	EventID      int64
	Title        string
	Status       EventStatus
	StartsAt     time.Time
	MaxAttendees int
	TicketsSold  int
	Confirmed    int
	Revenue      float64
	CapacityPct  *float64
}

type RevenueReport struct {
	Summary        RevenueSummary
	DailyRevenue   []DailyRevenuePoint
	PaymentMethods []PaymentMethodShare
	Ranking        []EventRevenue
}

// RevenueSummary splits money by payment status. Only completed payments
// count toward TotalRevenue.
type RevenueSummary struct {
	TotalRevenue          float64
	CompletedTransactions int
	PendingRevenue        float64
	PendingTransactions   int
	FailedRevenue         float64
	FailedTransactions    int
	AvgTransaction        float64
}

type DailyRevenuePoint struct {
	Day          time.Time
	Revenue      float64
	Transactions int
}

// PaymentMethodShare carries the method's share of completed revenue as a
// percentage of the report total.
type PaymentMethodShare struct {
	Method       string
	Revenue      float64
	Transactions int
	Share        float64
}

type EventRevenue struct {
	EventID     int64
	Title       string
	TicketsSold int
	Revenue     float64
}

type AttendeesReport struct {
	Summary       AttendeeSummary
	Timeline      []RegistrationPoint
	TopAttendees  []TopAttendee
	EventsRanking []EventPopularity
}

// AttendeeSummary aggregates the audience. AverageAge is nil when no
// attendee has a recorded date of birth.
type AttendeeSummary struct {
	UniqueAttendees        int
	TotalRegistrations     int
	ConfirmedRegistrations int
	AverageAge             *float64
	GenderCounts           []GenderCount
}

type GenderCount struct {
	Gender string
	Count  int
}

type RegistrationPoint struct {
	Day           time.Time
	Registrations int
}

type TopAttendee struct {
	UserID         int64
	Name           string
	Email          string
	EventsAttended int
	TotalSpent     float64
}

// EventPopularity ranks events by registrations. RegistrationRate is nil
// when the event has no capacity configured.
type EventPopularity struct {
	EventID          int64
	Title            string
	MaxAttendees     int
	Registrations    int
	UniqueAttendees  int
	RegistrationRate *float64
}

type PerformanceReport struct {
	Summary      PerformanceSummary
	EventRatings []EventPerformance
	MonthlyTrend []MonthlyTrendPoint
}

// PerformanceSummary averages are nil when no event in range qualifies for
// the underlying ratio (for example, no event has capacity configured).
type PerformanceSummary struct {
	AvgUtilization        *float64
	AvgConversionRate     *float64
	AvgRevenuePerEvent    float64
	SuccessfulEvents      int
	UnderperformingEvents int
}

// EventPerformance is one row of the performance table. ConversionRate is
// nil when the event has no registrations at all.
type EventPerformance struct {
	EventID            int64
	Title              string
	MaxAttendees       int
	TotalRegistrations int
	Confirmed          int
	Revenue            float64
	Utilization        *float64
	ConversionRate     *float64
	Rating             string
}

type MonthlyTrendPoint struct {
	Month       string // YYYY-MM
	Events      int
	TicketsSold int
	Revenue     float64
}
