package app

import (
	"context"
	"log"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/clock"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// ReportScope is the filter every aggregation query runs under. From is
// inclusive, To exclusive; EventID zero means all of the organizer's events.
type ReportScope struct {
	OrganizerID int64
	From        time.Time
	To          time.Time
	Now         time.Time
	EventID     int64
}

// ReportRepository exposes one read per report section. Implementations must
// scope every query by ReportScope.OrganizerID. Derived metrics (ratings,
// percentages, shares) are computed by the service, not the queries.
type ReportRepository interface {
	EventOwner(ctx context.Context, eventID int64) (int64, error)

	EventSummary(ctx context.Context, scope ReportScope) (domain.EventSummary, error)
	EventDetails(ctx context.Context, scope ReportScope) ([]domain.EventDetail, error)

	RevenueSummary(ctx context.Context, scope ReportScope) (domain.RevenueSummary, error)
	DailyRevenue(ctx context.Context, scope ReportScope) ([]domain.DailyRevenuePoint, error)
	PaymentMethodBreakdown(ctx context.Context, scope ReportScope) ([]domain.PaymentMethodShare, error)
	EventRevenueRanking(ctx context.Context, scope ReportScope) ([]domain.EventRevenue, error)

	AttendeeSummary(ctx context.Context, scope ReportScope) (domain.AttendeeSummary, error)
	RegistrationTimeline(ctx context.Context, scope ReportScope) ([]domain.RegistrationPoint, error)
	TopAttendees(ctx context.Context, scope ReportScope, limit int) ([]domain.TopAttendee, error)
	EventPopularity(ctx context.Context, scope ReportScope) ([]domain.EventPopularity, error)

	EventPerformance(ctx context.Context, scope ReportScope) ([]domain.EventPerformance, error)
	MonthlyTrend(ctx context.Context, scope ReportScope) ([]domain.MonthlyTrendPoint, error)
}

type ReportService struct {
	repo    ReportRepository
	clock   clock.Clock
	logger  *log.Logger
	timeout time.Duration
}

const defaultReportTimeout = 30 * time.Second
const topAttendeeLimit = 20

func NewReportService(repo ReportRepository, clk clock.Clock, opts ...ReportServiceOption) *ReportService {
	svc := &ReportService{
		repo:    repo,
		clock:   clk,
		logger:  log.Default(),
		timeout: defaultReportTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReportServiceOption func(*ReportService)

// WithReportTimeout bounds one report generation end to end. Expiry degrades
// the remaining sections to omitted rather than failing the report.
func WithReportTimeout(d time.Duration) ReportServiceOption {
	return func(s *ReportService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithReportLogger overrides the logger used for per-section failures.
func WithReportLogger(logger *log.Logger) ReportServiceOption {
	return func(s *ReportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type GenerateReportInput struct {
	OrganizerID int64
	ReportType  string
	StartDate   *time.Time
	EndDate     *time.Time
	EventID     int64 // 0 means all events
}

// Generate runs the aggregation for one organizer. Validation errors are
// returned; individual section query failures are logged, recorded in
// Report.Omitted and otherwise swallowed so the caller always gets a
// renderable (possibly partial) report.
func (s *ReportService) Generate(ctx context.Context, in GenerateReportInput) (domain.Report, error) {
	if in.OrganizerID <= 0 {
		return domain.Report{}, domain.ErrInvalidOrganizer
	}

	reportType, known := domain.ParseReportType(in.ReportType)
	if !known && in.ReportType != "" {
		s.logger.Printf("WARN: unknown report type %q, falling back to overview", in.ReportType)
	}

	now := s.clock.Now()
	rng := domain.CurrentMonth(now)
	if in.StartDate != nil {
		rng.Start = *in.StartDate
	}
	if in.EndDate != nil {
		rng.End = *in.EndDate
	}
	if err := rng.Validate(); err != nil {
		return domain.Report{}, err
	}

	if in.EventID != 0 {
		owner, err := s.repo.EventOwner(ctx, in.EventID)
		if err != nil {
			return domain.Report{}, err
		}
		if owner != in.OrganizerID {
			return domain.Report{}, domain.ErrEventForbidden
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	scope := ReportScope{
		OrganizerID: in.OrganizerID,
		From:        rng.Start,
		To:          rng.End.AddDate(0, 0, 1),
		Now:         now,
		EventID:     in.EventID,
	}

	report := domain.Report{
		Type:        reportType,
		OrganizerID: in.OrganizerID,
		EventID:     in.EventID,
		Range:       rng,
		GeneratedAt: now,
	}

	switch reportType {
	case domain.ReportRevenue:
		report.Revenue = s.revenueReport(ctx, scope, &report)
	case domain.ReportAttendees:
		report.Attendees = s.attendeesReport(ctx, scope, &report)
	case domain.ReportPerformance:
		report.Performance = s.performanceReport(ctx, scope, &report)
	default:
		report.Overview = s.overviewReport(ctx, scope, &report)
	}

	return report, nil
}

// omit records a failed section and logs the underlying error. It returns
// true when the section must be skipped.
func (s *ReportService) omit(report *domain.Report, section string, err error) bool {
	if err == nil {
		return false
	}
	s.logger.Printf("%s query failed: %v", section, err)
	report.Omitted = append(report.Omitted, section)
	return true
}

func (s *ReportService) overviewReport(ctx context.Context, scope ReportScope, report *domain.Report) *domain.OverviewReport {
	out := &domain.OverviewReport{}

	summary, err := s.repo.EventSummary(ctx, scope)
	if !s.omit(report, domain.SectionEventSummary, err) {
		out.Summary = summary
	}

	details, err := s.repo.EventDetails(ctx, scope)
	if !s.omit(report, domain.SectionEventDetails, err) {
		for i := range details {
			if pct, ok := domain.Utilization(details[i].TicketsSold, details[i].MaxAttendees); ok {
				details[i].CapacityPct = &pct
			}
		}
		out.EventDetails = details
	}
	if out.EventDetails == nil {
		out.EventDetails = []domain.EventDetail{}
	}
	return out
}

func (s *ReportService) revenueReport(ctx context.Context, scope ReportScope, report *domain.Report) *domain.RevenueReport {
	out := &domain.RevenueReport{}

	summary, err := s.repo.RevenueSummary(ctx, scope)
	if !s.omit(report, domain.SectionRevenueSummary, err) {
		if summary.CompletedTransactions > 0 {
			summary.AvgTransaction = summary.TotalRevenue / float64(summary.CompletedTransactions)
		}
		out.Summary = summary
	}

	daily, err := s.repo.DailyRevenue(ctx, scope)
	if !s.omit(report, domain.SectionDailyRevenue, err) {
		out.DailyRevenue = daily
	}

	methods, err := s.repo.PaymentMethodBreakdown(ctx, scope)
	if !s.omit(report, domain.SectionPaymentMethods, err) {
		var total float64
		for _, m := range methods {
			total += m.Revenue
		}
		for i := range methods {
			if total > 0 {
				methods[i].Share = methods[i].Revenue / total * 100
			}
		}
		out.PaymentMethods = methods
	}

	ranking, err := s.repo.EventRevenueRanking(ctx, scope)
	if !s.omit(report, domain.SectionRevenueRanking, err) {
		out.Ranking = ranking
	}

	if out.DailyRevenue == nil {
		out.DailyRevenue = []domain.DailyRevenuePoint{}
	}
	if out.PaymentMethods == nil {
		out.PaymentMethods = []domain.PaymentMethodShare{}
	}
	if out.Ranking == nil {
		out.Ranking = []domain.EventRevenue{}
	}
	return out
}

func (s *ReportService) attendeesReport(ctx context.Context, scope ReportScope, report *domain.Report) *domain.AttendeesReport {
	out := &domain.AttendeesReport{}

	summary, err := s.repo.AttendeeSummary(ctx, scope)
	if !s.omit(report, domain.SectionAttendeeSummary, err) {
		out.Summary = summary
	}

	timeline, err := s.repo.RegistrationTimeline(ctx, scope)
	if !s.omit(report, domain.SectionRegistrationTimeline, err) {
		out.Timeline = timeline
	}

	top, err := s.repo.TopAttendees(ctx, scope, topAttendeeLimit)
	if !s.omit(report, domain.SectionTopAttendees, err) {
		out.TopAttendees = top
	}

	popularity, err := s.repo.EventPopularity(ctx, scope)
	if !s.omit(report, domain.SectionEventPopularity, err) {
		for i := range popularity {
			if rate, ok := domain.Utilization(popularity[i].Registrations, popularity[i].MaxAttendees); ok {
				popularity[i].RegistrationRate = &rate
			}
		}
		out.EventsRanking = popularity
	}

	if out.Summary.GenderCounts == nil {
		out.Summary.GenderCounts = []domain.GenderCount{}
	}
	if out.Timeline == nil {
		out.Timeline = []domain.RegistrationPoint{}
	}
	if out.TopAttendees == nil {
		out.TopAttendees = []domain.TopAttendee{}
	}
	if out.EventsRanking == nil {
		out.EventsRanking = []domain.EventPopularity{}
	}
	return out
}

func (s *ReportService) performanceReport(ctx context.Context, scope ReportScope, report *domain.Report) *domain.PerformanceReport {
	out := &domain.PerformanceReport{}

	rows, err := s.repo.EventPerformance(ctx, scope)
	if !s.omit(report, domain.SectionEventPerformance, err) {
		out.EventRatings = rateEvents(rows)
		out.Summary = summarizePerformance(out.EventRatings)
	} else {
		report.Omitted = append(report.Omitted, domain.SectionPerformanceSummary)
	}

	trend, err := s.repo.MonthlyTrend(ctx, scope)
	if !s.omit(report, domain.SectionMonthlyTrend, err) {
		out.MonthlyTrend = trend
	}

	if out.EventRatings == nil {
		out.EventRatings = []domain.EventPerformance{}
	}
	if out.MonthlyTrend == nil {
		out.MonthlyTrend = []domain.MonthlyTrendPoint{}
	}
	return out
}

// rateEvents fills the derived columns of raw performance rows.
func rateEvents(rows []domain.EventPerformance) []domain.EventPerformance {
	for i := range rows {
		row := &rows[i]
		if pct, ok := domain.Utilization(row.Confirmed, row.MaxAttendees); ok {
			row.Utilization = &pct
		}
		if row.TotalRegistrations > 0 {
			rate := float64(row.Confirmed) / float64(row.TotalRegistrations) * 100
			row.ConversionRate = &rate
		}
		row.Rating = domain.Rating(row.Confirmed, row.MaxAttendees)
	}
	return rows
}

// summarizePerformance averages the per-event ratios over the events where
// they apply and counts successful (>=80% utilization) and underperforming
// (<30%) events.
func summarizePerformance(rows []domain.EventPerformance) domain.PerformanceSummary {
	var summary domain.PerformanceSummary
	var utilSum, convSum, revenueSum float64
	var utilN, convN int

	for _, row := range rows {
		revenueSum += row.Revenue
		if row.Utilization != nil {
			utilSum += *row.Utilization
			utilN++
			if *row.Utilization >= 80 {
				summary.SuccessfulEvents++
			} else if *row.Utilization < 30 {
				summary.UnderperformingEvents++
			}
		}
		if row.ConversionRate != nil {
			convSum += *row.ConversionRate
			convN++
		}
	}

	if utilN > 0 {
		avg := utilSum / float64(utilN)
		summary.AvgUtilization = &avg
	}
	if convN > 0 {
		avg := convSum / float64(convN)
		summary.AvgConversionRate = &avg
	}
	if len(rows) > 0 {
		summary.AvgRevenuePerEvent = revenueSum / float64(len(rows))
	}
	return summary
}
