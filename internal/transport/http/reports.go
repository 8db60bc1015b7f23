package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/app"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/export"
)

const organizerIDHeader = "X-Organizer-ID"
const dateParamLayout = "2006-01-02"

// ReportGenerator is the minimal interface the reports endpoint needs.
type ReportGenerator interface {
	Generate(ctx context.Context, in app.GenerateReportInput) (domain.Report, error)
}

// HandleReports serves GET /reports. The web format answers JSON sections;
// csv, excel and pdf answer a download with Content-Disposition set.
func HandleReports(svc ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		organizerID, ok := organizerFromRequest(w, r)
		if !ok {
			return
		}

		in := app.GenerateReportInput{
			OrganizerID: organizerID,
			ReportType:  r.URL.Query().Get("type"),
		}

		if raw := r.URL.Query().Get("start_date"); raw != "" {
			parsed, err := time.Parse(dateParamLayout, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date format")
				return
			}
			in.StartDate = &parsed
		}
		if raw := r.URL.Query().Get("end_date"); raw != "" {
			parsed, err := time.Parse(dateParamLayout, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date format")
				return
			}
			in.EndDate = &parsed
		}

		if raw := r.URL.Query().Get("event_id"); raw != "" && raw != "all" {
			eventID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || eventID <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidEventID, "event_id must be a positive integer or \"all\"")
				return
			}
			in.EventID = eventID
		}

		format, _ := domain.ParseReportFormat(r.URL.Query().Get("format"))

		report, err := svc.Generate(r.Context(), in)
		if err != nil {
			switch err {
			case domain.ErrInvalidOrganizer:
				writeError(w, http.StatusBadRequest, codeOrganizerRequired, err.Error())
			case domain.ErrInvalidDateRange:
				writeError(w, http.StatusBadRequest, codeInvalidDateRange, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrEventForbidden:
				writeError(w, http.StatusForbidden, codeEventForbidden, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		if format == domain.FormatWeb {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(reportResponseFrom(report))
			return
		}

		body, contentType, filename, err := export.Render(report, format)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeExportFailed, "export failed")
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = w.Write(body)
	}
}

func organizerFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get(organizerIDHeader)
	if raw == "" {
		writeError(w, http.StatusBadRequest, codeOrganizerRequired, organizerIDHeader+" header required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeOrganizerRequired, organizerIDHeader+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// reportResponse mirrors the dashboard's shape: report metadata plus a
// mapping of named result sets.
type reportResponse struct {
	Type        string         `json:"type"`
	OrganizerID int64          `json:"organizer_id"`
	EventID     string         `json:"event_id"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	GeneratedAt time.Time      `json:"generated_at"`
	Sections    map[string]any `json:"sections"`
	Omitted     []string       `json:"omitted,omitempty"`
}

func reportResponseFrom(report domain.Report) reportResponse {
	eventID := "all"
	if report.EventID != 0 {
		eventID = strconv.FormatInt(report.EventID, 10)
	}
	resp := reportResponse{
		Type:        string(report.Type),
		OrganizerID: report.OrganizerID,
		EventID:     eventID,
		StartDate:   report.Range.Start.Format(dateParamLayout),
		EndDate:     report.Range.End.Format(dateParamLayout),
		GeneratedAt: report.GeneratedAt,
		Omitted:     report.Omitted,
	}

	switch {
	case report.Overview != nil:
		resp.Sections = overviewSections(report.Overview)
	case report.Revenue != nil:
		resp.Sections = revenueSections(report.Revenue)
	case report.Attendees != nil:
		resp.Sections = attendeeSections(report.Attendees)
	case report.Performance != nil:
		resp.Sections = performanceSections(report.Performance)
	default:
		resp.Sections = map[string]any{}
	}
	return resp
}

type eventSummaryDTO struct {
	TotalEvents    int     `json:"total_events"`
	DraftEvents    int     `json:"draft_events"`
	PendingEvents  int     `json:"pending_events"`
	ApprovedEvents int     `json:"approved_events"`
	RejectedEvents int     `json:"rejected_events"`
	UpcomingEvents int     `json:"upcoming_events"`
	PastEvents     int     `json:"past_events"`
	TotalCapacity  int     `json:"total_capacity"`
	AvgCapacity    float64 `json:"avg_capacity"`
}

type eventDetailDTO struct {
	EventID      int64    `json:"event_id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	StartsAt     string   `json:"starts_at"`
	MaxAttendees int      `json:"max_attendees"`
	TicketsSold  int      `json:"tickets_sold"`
	Confirmed    int      `json:"confirmed"`
	Revenue      float64  `json:"revenue"`
	CapacityPct  *float64 `json:"capacity_percentage"`
}

func overviewSections(o *domain.OverviewReport) map[string]any {
	details := make([]eventDetailDTO, 0, len(o.EventDetails))
	for _, d := range o.EventDetails {
		details = append(details, eventDetailDTO{
			EventID:      d.EventID,
			Title:        d.Title,
			Status:       string(d.Status),
			StartsAt:     d.StartsAt.Format(dateParamLayout),
			MaxAttendees: d.MaxAttendees,
			TicketsSold:  d.TicketsSold,
			Confirmed:    d.Confirmed,
			Revenue:      d.Revenue,
			CapacityPct:  d.CapacityPct,
		})
	}
	return map[string]any{
		domain.SectionEventSummary: eventSummaryDTO{
			TotalEvents:    o.Summary.TotalEvents,
			DraftEvents:    o.Summary.DraftEvents,
			PendingEvents:  o.Summary.PendingEvents,
			ApprovedEvents: o.Summary.ApprovedEvents,
			RejectedEvents: o.Summary.RejectedEvents,
			UpcomingEvents: o.Summary.UpcomingEvents,
			PastEvents:     o.Summary.PastEvents,
			TotalCapacity:  o.Summary.TotalCapacity,
			AvgCapacity:    o.Summary.AvgCapacity,
		},
		domain.SectionEventDetails: details,
	}
}

type revenueSummaryDTO struct {
	TotalRevenue          float64 `json:"total_revenue"`
	CompletedTransactions int     `json:"completed_transactions"`
	PendingRevenue        float64 `json:"pending_revenue"`
	PendingTransactions   int     `json:"pending_transactions"`
	FailedRevenue         float64 `json:"failed_revenue"`
	FailedTransactions    int     `json:"failed_transactions"`
	AvgTransaction        float64 `json:"avg_transaction"`
}

type dailyRevenueDTO struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

type paymentMethodDTO struct {
	Method       string  `json:"method"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	Share        float64 `json:"share_percentage"`
}

type eventRevenueDTO struct {
	EventID     int64   `json:"event_id"`
	Title       string  `json:"title"`
	TicketsSold int     `json:"tickets_sold"`
	Revenue     float64 `json:"event_revenue"`
}

func revenueSections(rev *domain.RevenueReport) map[string]any {
	daily := make([]dailyRevenueDTO, 0, len(rev.DailyRevenue))
	for _, p := range rev.DailyRevenue {
		daily = append(daily, dailyRevenueDTO{
			Date:         p.Day.Format(dateParamLayout),
			Revenue:      p.Revenue,
			Transactions: p.Transactions,
		})
	}
	methods := make([]paymentMethodDTO, 0, len(rev.PaymentMethods))
	for _, m := range rev.PaymentMethods {
		methods = append(methods, paymentMethodDTO{
			Method:       m.Method,
			Revenue:      m.Revenue,
			Transactions: m.Transactions,
			Share:        m.Share,
		})
	}
	ranking := make([]eventRevenueDTO, 0, len(rev.Ranking))
	for _, e := range rev.Ranking {
		ranking = append(ranking, eventRevenueDTO{
			EventID:     e.EventID,
			Title:       e.Title,
			TicketsSold: e.TicketsSold,
			Revenue:     e.Revenue,
		})
	}
	return map[string]any{
		domain.SectionRevenueSummary: revenueSummaryDTO{
			TotalRevenue:          rev.Summary.TotalRevenue,
			CompletedTransactions: rev.Summary.CompletedTransactions,
			PendingRevenue:        rev.Summary.PendingRevenue,
			PendingTransactions:   rev.Summary.PendingTransactions,
			FailedRevenue:         rev.Summary.FailedRevenue,
			FailedTransactions:    rev.Summary.FailedTransactions,
			AvgTransaction:        rev.Summary.AvgTransaction,
		},
		domain.SectionDailyRevenue:   daily,
		domain.SectionPaymentMethods: methods,
		domain.SectionRevenueRanking: ranking,
	}
}

type attendeeSummaryDTO struct {
	UniqueAttendees        int              `json:"unique_attendees"`
	TotalRegistrations     int              `json:"total_registrations"`
	ConfirmedRegistrations int              `json:"confirmed_registrations"`
	AverageAge             *float64         `json:"average_age"`
	GenderCounts           []genderCountDTO `json:"gender_counts"`
}

type genderCountDTO struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

type registrationPointDTO struct {
	Date          string `json:"date"`
	Registrations int    `json:"registrations"`
}

type topAttendeeDTO struct {
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	EventsAttended int     `json:"events_attended"`
	TotalSpent     float64 `json:"total_spent"`
}

type eventPopularityDTO struct {
	EventID          int64    `json:"event_id"`
	Title            string   `json:"title"`
	MaxAttendees     int      `json:"max_attendees"`
	Registrations    int      `json:"registrations"`
	UniqueAttendees  int      `json:"unique_attendees"`
	RegistrationRate *float64 `json:"registration_rate"`
}

func attendeeSections(att *domain.AttendeesReport) map[string]any {
	genders := make([]genderCountDTO, 0, len(att.Summary.GenderCounts))
	for _, g := range att.Summary.GenderCounts {
		genders = append(genders, genderCountDTO{Gender: g.Gender, Count: g.Count})
	}
	timeline := make([]registrationPointDTO, 0, len(att.Timeline))
	for _, p := range att.Timeline {
		timeline = append(timeline, registrationPointDTO{
			Date:          p.Day.Format(dateParamLayout),
			Registrations: p.Registrations,
		})
	}
	top := make([]topAttendeeDTO, 0, len(att.TopAttendees))
	for _, a := range att.TopAttendees {
		top = append(top, topAttendeeDTO{
			UserID:         a.UserID,
			Name:           a.Name,
			Email:          a.Email,
			EventsAttended: a.EventsAttended,
			TotalSpent:     a.TotalSpent,
		})
	}
	popularity := make([]eventPopularityDTO, 0, len(att.EventsRanking))
	for _, e := range att.EventsRanking {
		popularity = append(popularity, eventPopularityDTO{
			EventID:          e.EventID,
			Title:            e.Title,
			MaxAttendees:     e.MaxAttendees,
			Registrations:    e.Registrations,
			UniqueAttendees:  e.UniqueAttendees,
			RegistrationRate: e.RegistrationRate,
		})
	}
	return map[string]any{
		domain.SectionAttendeeSummary: attendeeSummaryDTO{
			UniqueAttendees:        att.Summary.UniqueAttendees,
			TotalRegistrations:     att.Summary.TotalRegistrations,
			ConfirmedRegistrations: att.Summary.ConfirmedRegistrations,
			AverageAge:             att.Summary.AverageAge,
			GenderCounts:           genders,
		},
		domain.SectionRegistrationTimeline: timeline,
		domain.SectionTopAttendees:         top,
		domain.SectionEventPopularity:      popularity,
	}
}

type performanceSummaryDTO struct {
	AvgUtilization        *float64 `json:"avg_capacity_utilization"`
	AvgConversionRate     *float64 `json:"avg_conversion_rate"`
	AvgRevenuePerEvent    float64  `json:"avg_revenue_per_event"`
	SuccessfulEvents      int      `json:"successful_events"`
	UnderperformingEvents int      `json:"underperforming_events"`
}

type eventPerformanceDTO struct {
	EventID            int64    `json:"event_id"`
	Title              string   `json:"title"`
	MaxAttendees       int      `json:"max_attendees"`
	TotalRegistrations int      `json:"total_registrations"`
	Confirmed          int      `json:"confirmed"`
	Revenue            float64  `json:"revenue"`
	Utilization        *float64 `json:"capacity_utilization"`
	ConversionRate     *float64 `json:"conversion_rate"`
	Rating             string   `json:"rating"`
}

type monthlyTrendDTO struct {
	Month       string  `json:"month"`
	Events      int     `json:"events"`
	TicketsSold int     `json:"tickets_sold"`
	Revenue     float64 `json:"revenue"`
}

func performanceSections(perf *domain.PerformanceReport) map[string]any {
	ratings := make([]eventPerformanceDTO, 0, len(perf.EventRatings))
	for _, e := range perf.EventRatings {
		ratings = append(ratings, eventPerformanceDTO{
			EventID:            e.EventID,
			Title:              e.Title,
			MaxAttendees:       e.MaxAttendees,
			TotalRegistrations: e.TotalRegistrations,
			Confirmed:          e.Confirmed,
			Revenue:            e.Revenue,
			Utilization:        e.Utilization,
			ConversionRate:     e.ConversionRate,
			Rating:             e.Rating,
		})
	}
	trend := make([]monthlyTrendDTO, 0, len(perf.MonthlyTrend))
	for _, p := range perf.MonthlyTrend {
		trend = append(trend, monthlyTrendDTO{
			Month:       p.Month,
			Events:      p.Events,
			TicketsSold: p.TicketsSold,
			Revenue:     p.Revenue,
		})
	}
	return map[string]any{
		domain.SectionPerformanceSummary: performanceSummaryDTO{
			AvgUtilization:        perf.Summary.AvgUtilization,
			AvgConversionRate:     perf.Summary.AvgConversionRate,
			AvgRevenuePerEvent:    perf.Summary.AvgRevenuePerEvent,
			SuccessfulEvents:      perf.Summary.SuccessfulEvents,
			UnderperformingEvents: perf.Summary.UnderperformingEvents,
		},
		domain.SectionEventPerformance: ratings,
		domain.SectionMonthlyTrend:     trend,
	}
}
