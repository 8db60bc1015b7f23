package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/clock"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// fakeReportRepo records every scope it is queried with and answers from the
// configured function fields, defaulting to zero values.
type fakeReportRepo struct {
	scopes []ReportScope

	eventOwnerFn       func(eventID int64) (int64, error)
	eventSummaryFn     func(scope ReportScope) (domain.EventSummary, error)
	eventDetailsFn     func(scope ReportScope) ([]domain.EventDetail, error)
	revenueSummaryFn   func(scope ReportScope) (domain.RevenueSummary, error)
	dailyRevenueFn     func(scope ReportScope) ([]domain.DailyRevenuePoint, error)
	paymentMethodsFn   func(scope ReportScope) ([]domain.PaymentMethodShare, error)
	revenueRankingFn   func(scope ReportScope) ([]domain.EventRevenue, error)
	attendeeSummaryFn  func(scope ReportScope) (domain.AttendeeSummary, error)
	timelineFn         func(scope ReportScope) ([]domain.RegistrationPoint, error)
	topAttendeesFn     func(scope ReportScope, limit int) ([]domain.TopAttendee, error)
	eventPopularityFn  func(scope ReportScope) ([]domain.EventPopularity, error)
	eventPerformanceFn func(scope ReportScope) ([]domain.EventPerformance, error)
	monthlyTrendFn     func(scope ReportScope) ([]domain.MonthlyTrendPoint, error)
}

func (f *fakeReportRepo) EventOwner(_ context.Context, eventID int64) (int64, error) {
	if f.eventOwnerFn != nil {
		return f.eventOwnerFn(eventID)
	}
	return 0, domain.ErrEventNotFound
}

func (f *fakeReportRepo) record(scope ReportScope) {
	f.scopes = append(f.scopes, scope)
}

func (f *fakeReportRepo) EventSummary(_ context.Context, scope ReportScope) (domain.EventSummary, error) {
	f.record(scope)
	if f.eventSummaryFn != nil {
		return f.eventSummaryFn(scope)
	}
	return domain.EventSummary{}, nil
}

func (f *fakeReportRepo) EventDetails(_ context.Context, scope ReportScope) ([]domain.EventDetail, error) {
	f.record(scope)
	if f.eventDetailsFn != nil {
		return f.eventDetailsFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) RevenueSummary(_ context.Context, scope ReportScope) (domain.RevenueSummary, error) {
	f.record(scope)
	if f.revenueSummaryFn != nil {
		return f.revenueSummaryFn(scope)
	}
	return domain.RevenueSummary{}, nil
}

func (f *fakeReportRepo) DailyRevenue(_ context.Context, scope ReportScope) ([]domain.DailyRevenuePoint, error) {
	f.record(scope)
	if f.dailyRevenueFn != nil {
		return f.dailyRevenueFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) PaymentMethodBreakdown(_ context.Context, scope ReportScope) ([]domain.PaymentMethodShare, error) {
	f.record(scope)
	if f.paymentMethodsFn != nil {
		return f.paymentMethodsFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) EventRevenueRanking(_ context.Context, scope ReportScope) ([]domain.EventRevenue, error) {
	f.record(scope)
	if f.revenueRankingFn != nil {
		return f.revenueRankingFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) AttendeeSummary(_ context.Context, scope ReportScope) (domain.AttendeeSummary, error) {
	f.record(scope)
	if f.attendeeSummaryFn != nil {
		return f.attendeeSummaryFn(scope)
	}
	return domain.AttendeeSummary{}, nil
}

func (f *fakeReportRepo) RegistrationTimeline(_ context.Context, scope ReportScope) ([]domain.RegistrationPoint, error) {
	f.record(scope)
	if f.timelineFn != nil {
		return f.timelineFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) TopAttendees(_ context.Context, scope ReportScope, limit int) ([]domain.TopAttendee, error) {
	f.record(scope)
	if f.topAttendeesFn != nil {
		return f.topAttendeesFn(scope, limit)
	}
	return nil, nil
}

func (f *fakeReportRepo) EventPopularity(_ context.Context, scope ReportScope) ([]domain.EventPopularity, error) {
	f.record(scope)
	if f.eventPopularityFn != nil {
		return f.eventPopularityFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) EventPerformance(_ context.Context, scope ReportScope) ([]domain.EventPerformance, error) {
	f.record(scope)
	if f.eventPerformanceFn != nil {
		return f.eventPerformanceFn(scope)
	}
	return nil, nil
}

func (f *fakeReportRepo) MonthlyTrend(_ context.Context, scope ReportScope) ([]domain.MonthlyTrendPoint, error) {
	f.record(scope)
	if f.monthlyTrendFn != nil {
		return f.monthlyTrendFn(scope)
	}
	return nil, nil
}

var fixedNow = time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)

func newReportService(repo *fakeReportRepo, logBuf *bytes.Buffer) *ReportService {
	opts := []ReportServiceOption{}
	if logBuf != nil {
		opts = append(opts, WithReportLogger(log.New(logBuf, "", 0)))
	}
	return NewReportService(repo, clock.NewFixed(fixedNow), opts...)
}

func TestGenerate_DefaultsToCurrentMonth(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{}
	svc := newReportService(repo, nil)

	report, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "overview",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if !report.Range.Start.Equal(wantStart) || !report.Range.End.Equal(wantEnd) {
		t.Fatalf("unexpected range: %v .. %v", report.Range.Start, report.Range.End)
	}

	if len(repo.scopes) == 0 {
		t.Fatalf("expected queries to run")
	}
	for _, scope := range repo.scopes {
		if scope.OrganizerID != 7 {
			t.Fatalf("query not scoped to organizer: %+v", scope)
		}
		if !scope.From.Equal(wantStart) {
			t.Fatalf("unexpected scope start: %v", scope.From)
		}
		// The upper bound is exclusive, one day past the inclusive end date.
		if !scope.To.Equal(wantEnd.AddDate(0, 0, 1)) {
			t.Fatalf("unexpected scope end: %v", scope.To)
		}
	}
	if report.Overview == nil {
		t.Fatalf("expected overview payload")
	}
	if !report.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("unexpected GeneratedAt: %v", report.GeneratedAt)
	}
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{}
	svc := newReportService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, GenerateReportInput{OrganizerID: 0}); !errors.Is(err, domain.ErrInvalidOrganizer) {
		t.Fatalf("expected ErrInvalidOrganizer, got %v", err)
	}

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -5)
	_, err := svc.Generate(ctx, GenerateReportInput{
		OrganizerID: 7,
		StartDate:   &start,
		EndDate:     &end,
	})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if len(repo.scopes) != 0 {
		t.Fatalf("no queries should run on validation failure")
	}
}

func TestGenerate_EventOwnership(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{
		eventOwnerFn: func(eventID int64) (int64, error) {
			switch eventID {
			case 11:
				return 7, nil
			case 12:
				return 99, nil
			}
			return 0, domain.ErrEventNotFound
		},
	}
	svc := newReportService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, GenerateReportInput{OrganizerID: 7, EventID: 12}); !errors.Is(err, domain.ErrEventForbidden) {
		t.Fatalf("expected ErrEventForbidden, got %v", err)
	}
	if _, err := svc.Generate(ctx, GenerateReportInput{OrganizerID: 7, EventID: 404}); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	report, err := svc.Generate(ctx, GenerateReportInput{OrganizerID: 7, EventID: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, scope := range repo.scopes {
		if scope.EventID != 11 {
			t.Fatalf("expected scope pinned to event 11: %+v", scope)
		}
	}
	if report.EventID != 11 {
		t.Fatalf("unexpected report event id: %d", report.EventID)
	}
}

func TestGenerate_UnknownTypeFallsBackToOverview(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	repo := &fakeReportRepo{}
	svc := newReportService(repo, &logBuf)

	report, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "bogus",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Type != domain.ReportOverview {
		t.Fatalf("expected overview, got %q", report.Type)
	}
	if report.Overview == nil {
		t.Fatalf("expected overview payload")
	}
	if !strings.Contains(logBuf.String(), "unknown report type") {
		t.Fatalf("expected fallback warning, got %q", logBuf.String())
	}
}

func TestGenerate_FailedSectionIsOmittedNotFatal(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	repo := &fakeReportRepo{
		eventSummaryFn: func(ReportScope) (domain.EventSummary, error) {
			return domain.EventSummary{TotalEvents: 3}, nil
		},
		eventDetailsFn: func(ReportScope) ([]domain.EventDetail, error) {
			return nil, errors.New("relation vanished")
		},
	}
	svc := newReportService(repo, &logBuf)

	report, err := svc.Generate(context.Background(), GenerateReportInput{OrganizerID: 7})
	if err != nil {
		t.Fatalf("expected partial report, got error: %v", err)
	}
	if len(report.Omitted) != 1 || report.Omitted[0] != domain.SectionEventDetails {
		t.Fatalf("unexpected omitted sections: %v", report.Omitted)
	}
	if report.Overview.Summary.TotalEvents != 3 {
		t.Fatalf("surviving section should still be populated: %+v", report.Overview.Summary)
	}
	if len(report.Overview.EventDetails) != 0 {
		t.Fatalf("omitted section must stay empty")
	}
	if !strings.Contains(logBuf.String(), "relation vanished") {
		t.Fatalf("expected failure to be logged, got %q", logBuf.String())
	}
}

func TestGenerate_OverviewCapacityPercentage(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{
		eventDetailsFn: func(ReportScope) ([]domain.EventDetail, error) {
			return []domain.EventDetail{
				{EventID: 1, Title: "Gala", MaxAttendees: 200, TicketsSold: 50},
				{EventID: 2, Title: "Open mic", MaxAttendees: 0, TicketsSold: 10},
			}, nil
		},
	}
	svc := newReportService(repo, nil)

	report, err := svc.Generate(context.Background(), GenerateReportInput{OrganizerID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	details := report.Overview.EventDetails
	if details[0].CapacityPct == nil || *details[0].CapacityPct != 25 {
		t.Fatalf("expected 25%% capacity, got %v", details[0].CapacityPct)
	}
	if details[1].CapacityPct != nil {
		t.Fatalf("zero-capacity event must have nil percentage")
	}
}

func TestGenerate_RevenueDerivedMetrics(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{
		revenueSummaryFn: func(ReportScope) (domain.RevenueSummary, error) {
			return domain.RevenueSummary{
				TotalRevenue:          900,
				CompletedTransactions: 4,
				PendingRevenue:        120,
				PendingTransactions:   2,
			}, nil
		},
		paymentMethodsFn: func(ReportScope) ([]domain.PaymentMethodShare, error) {
			return []domain.PaymentMethodShare{
				{Method: "card", Revenue: 600, Transactions: 3},
				{Method: "mobile_money", Revenue: 300, Transactions: 1},
			}, nil
		},
	}
	svc := newReportService(repo, nil)

	report, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "revenue",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rev := report.Revenue
	if rev.Summary.AvgTransaction != 225 {
		t.Fatalf("expected avg transaction 225, got %v", rev.Summary.AvgTransaction)
	}
	if rev.PaymentMethods[0].Share != 200.0/3 || rev.PaymentMethods[1].Share != 100.0/3 {
		t.Fatalf("unexpected shares: %v / %v", rev.PaymentMethods[0].Share, rev.PaymentMethods[1].Share)
	}
}

func TestGenerate_PerformanceRatingsAndSummary(t *testing.T) {
	t.Parallel()

	repo := &fakeReportRepo{
		eventPerformanceFn: func(ReportScope) ([]domain.EventPerformance, error) {
			return []domain.EventPerformance{
				{EventID: 1, Title: "Career fair", MaxAttendees: 100, TotalRegistrations: 90, Confirmed: 85, Revenue: 1000},
				{EventID: 2, Title: "Chess night", MaxAttendees: 50, TotalRegistrations: 20, Confirmed: 10, Revenue: 200},
			}, nil
		},
	}
	svc := newReportService(repo, nil)

	report, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "performance",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	perf := report.Performance

	if perf.EventRatings[0].Rating != domain.RatingExcellent {
		t.Fatalf("expected Excellent, got %q", perf.EventRatings[0].Rating)
	}
	if perf.EventRatings[1].Rating != domain.RatingPoor {
		t.Fatalf("expected Poor, got %q", perf.EventRatings[1].Rating)
	}

	summary := perf.Summary
	if summary.SuccessfulEvents != 1 || summary.UnderperformingEvents != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.AvgUtilization == nil || *summary.AvgUtilization != 52.5 {
		t.Fatalf("expected avg utilization 52.5, got %v", summary.AvgUtilization)
	}
	if summary.AvgRevenuePerEvent != 600 {
		t.Fatalf("expected avg revenue 600, got %v", summary.AvgRevenuePerEvent)
	}
	wantConv := (85.0/90*100 + 10.0/20*100) / 2
	if summary.AvgConversionRate == nil || *summary.AvgConversionRate != wantConv {
		t.Fatalf("expected avg conversion %v, got %v", wantConv, summary.AvgConversionRate)
	}
}

func TestGenerate_PerformanceQueryFailureOmitsSummaryToo(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	repo := &fakeReportRepo{
		eventPerformanceFn: func(ReportScope) ([]domain.EventPerformance, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := newReportService(repo, &logBuf)

	report, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "performance",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	omitted := strings.Join(report.Omitted, ",")
	if !strings.Contains(omitted, domain.SectionEventPerformance) {
		t.Fatalf("expected event_performance omitted, got %v", report.Omitted)
	}
	if !strings.Contains(omitted, domain.SectionPerformanceSummary) {
		t.Fatalf("summary derives from the failed query and must be omitted too, got %v", report.Omitted)
	}
	if len(report.Performance.MonthlyTrend) != 0 {
		t.Fatalf("expected empty trend")
	}
}

func TestGenerate_TopAttendeeLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &fakeReportRepo{
		topAttendeesFn: func(_ ReportScope, limit int) ([]domain.TopAttendee, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newReportService(repo, nil)

	if _, err := svc.Generate(context.Background(), GenerateReportInput{
		OrganizerID: 7,
		ReportType:  "attendees",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != topAttendeeLimit {
		t.Fatalf("expected limit %d, got %d", topAttendeeLimit, gotLimit)
	}
}
