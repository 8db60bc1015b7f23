package export

import (
	"strconv"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// Table is the flat, already-formatted form every export format renders.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

const (
	dateLayout = "2006-01-02"
	na         = "N/A"
)

// PrimaryTable is the one table the CSV export flattens a report to: the
// report type's main entity.
func PrimaryTable(report domain.Report) Table {
	switch report.Type {
	case domain.ReportRevenue:
		if report.Revenue != nil {
			return dailyRevenueTable(report.Revenue.DailyRevenue)
		}
	case domain.ReportAttendees:
		if report.Attendees != nil {
			return topAttendeesTable(report.Attendees.TopAttendees)
		}
	case domain.ReportPerformance:
		if report.Performance != nil {
			return eventPerformanceTable(report.Performance.EventRatings)
		}
	default:
		if report.Overview != nil {
			return eventDetailsTable(report.Overview.EventDetails)
		}
	}
	return Table{Name: string(report.Type)}
}

// Tables lists every section of the report in rendering order, summaries
// included as single-row tables.
func Tables(report domain.Report) []Table {
	switch report.Type {
	case domain.ReportRevenue:
		if report.Revenue == nil {
			return nil
		}
		return []Table{
			revenueSummaryTable(report.Revenue.Summary),
			dailyRevenueTable(report.Revenue.DailyRevenue),
			paymentMethodsTable(report.Revenue.PaymentMethods),
			revenueRankingTable(report.Revenue.Ranking),
		}
	case domain.ReportAttendees:
		if report.Attendees == nil {
			return nil
		}
		return []Table{
			attendeeSummaryTable(report.Attendees.Summary),
			genderCountsTable(report.Attendees.Summary.GenderCounts),
			registrationTimelineTable(report.Attendees.Timeline),
			topAttendeesTable(report.Attendees.TopAttendees),
			eventPopularityTable(report.Attendees.EventsRanking),
		}
	case domain.ReportPerformance:
		if report.Performance == nil {
			return nil
		}
		return []Table{
			performanceSummaryTable(report.Performance.Summary),
			eventPerformanceTable(report.Performance.EventRatings),
			monthlyTrendTable(report.Performance.MonthlyTrend),
		}
	default:
		if report.Overview == nil {
			return nil
		}
		return []Table{
			eventSummaryTable(report.Overview.Summary),
			eventDetailsTable(report.Overview.EventDetails),
		}
	}
}

func eventSummaryTable(s domain.EventSummary) Table {
	return Table{
		Name: domain.SectionEventSummary,
		Headers: []string{
			"Total Events", "Draft", "Pending", "Approved", "Rejected",
			"Upcoming", "Past", "Total Capacity", "Average Capacity",
		},
		Rows: [][]string{{
			formatInt(s.TotalEvents),
			formatInt(s.DraftEvents),
			formatInt(s.PendingEvents),
			formatInt(s.ApprovedEvents),
			formatInt(s.RejectedEvents),
			formatInt(s.UpcomingEvents),
			formatInt(s.PastEvents),
			formatInt(s.TotalCapacity),
			formatFloat(s.AvgCapacity),
		}},
	}
}

func eventDetailsTable(details []domain.EventDetail) Table {
	t := Table{
		Name: domain.SectionEventDetails,
		Headers: []string{
			"Event ID", "Title", "Status", "Start Date", "Max Attendees",
			"Tickets Sold", "Confirmed", "Revenue", "Capacity %",
		},
	}
	for _, d := range details {
		t.Rows = append(t.Rows, []string{
			formatID(d.EventID),
			d.Title,
			string(d.Status),
			d.StartsAt.Format(dateLayout),
			formatInt(d.MaxAttendees),
			formatInt(d.TicketsSold),
			formatInt(d.Confirmed),
			formatFloat(d.Revenue),
			formatOptional(d.CapacityPct),
		})
	}
	return t
}

func revenueSummaryTable(s domain.RevenueSummary) Table {
	return Table{
		Name: domain.SectionRevenueSummary,
		Headers: []string{
			"Total Revenue", "Completed Transactions", "Pending Revenue",
			"Pending Transactions", "Failed Revenue", "Failed Transactions",
			"Average Transaction",
		},
		Rows: [][]string{{
			formatFloat(s.TotalRevenue),
			formatInt(s.CompletedTransactions),
			formatFloat(s.PendingRevenue),
			formatInt(s.PendingTransactions),
			formatFloat(s.FailedRevenue),
			formatInt(s.FailedTransactions),
			formatFloat(s.AvgTransaction),
		}},
	}
}

func dailyRevenueTable(points []domain.DailyRevenuePoint) Table {
	t := Table{
		Name:    domain.SectionDailyRevenue,
		Headers: []string{"Date", "Revenue", "Transactions"},
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{
			p.Day.Format(dateLayout),
			formatFloat(p.Revenue),
			formatInt(p.Transactions),
		})
	}
	return t
}

func paymentMethodsTable(methods []domain.PaymentMethodShare) Table {
	t := Table{
		Name:    domain.SectionPaymentMethods,
		Headers: []string{"Payment Method", "Revenue", "Transactions", "Share %"},
	}
	for _, m := range methods {
		t.Rows = append(t.Rows, []string{
			m.Method,
			formatFloat(m.Revenue),
			formatInt(m.Transactions),
			formatFloat(m.Share),
		})
	}
	return t
}

func revenueRankingTable(ranking []domain.EventRevenue) Table {
	t := Table{
		Name:    domain.SectionRevenueRanking,
		Headers: []string{"Event ID", "Title", "Tickets Sold", "Revenue"},
	}
	for _, e := range ranking {
		t.Rows = append(t.Rows, []string{
			formatID(e.EventID),
			e.Title,
			formatInt(e.TicketsSold),
			formatFloat(e.Revenue),
		})
	}
	return t
}

func attendeeSummaryTable(s domain.AttendeeSummary) Table {
	return Table{
		Name: domain.SectionAttendeeSummary,
		Headers: []string{
			"Unique Attendees", "Total Registrations", "Confirmed Registrations", "Average Age",
		},
		Rows: [][]string{{
			formatInt(s.UniqueAttendees),
			formatInt(s.TotalRegistrations),
			formatInt(s.ConfirmedRegistrations),
			formatOptional(s.AverageAge),
		}},
	}
}

func genderCountsTable(counts []domain.GenderCount) Table {
	t := Table{
		Name:    "gender_counts",
		Headers: []string{"Gender", "Attendees"},
	}
	for _, g := range counts {
		t.Rows = append(t.Rows, []string{g.Gender, formatInt(g.Count)})
	}
	return t
}

func registrationTimelineTable(points []domain.RegistrationPoint) Table {
	t := Table{
		Name:    domain.SectionRegistrationTimeline,
		Headers: []string{"Date", "Registrations"},
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{p.Day.Format(dateLayout), formatInt(p.Registrations)})
	}
	return t
}

func topAttendeesTable(attendees []domain.TopAttendee) Table {
	t := Table{
		Name:    domain.SectionTopAttendees,
		Headers: []string{"User ID", "Name", "Email", "Events Attended", "Total Spent"},
	}
	for _, a := range attendees {
		t.Rows = append(t.Rows, []string{
			formatID(a.UserID),
			a.Name,
			a.Email,
			formatInt(a.EventsAttended),
			formatFloat(a.TotalSpent),
		})
	}
	return t
}

func eventPopularityTable(events []domain.EventPopularity) Table {
	t := Table{
		Name:    domain.SectionEventPopularity,
		Headers: []string{"Event ID", "Title", "Max Attendees", "Registrations", "Unique Attendees", "Registration Rate %"},
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			formatID(e.EventID),
			e.Title,
			formatInt(e.MaxAttendees),
			formatInt(e.Registrations),
			formatInt(e.UniqueAttendees),
			formatOptional(e.RegistrationRate),
		})
	}
	return t
}

func performanceSummaryTable(s domain.PerformanceSummary) Table {
	return Table{
		Name: domain.SectionPerformanceSummary,
		Headers: []string{
			"Avg Capacity Utilization %", "Avg Conversion Rate %",
			"Avg Revenue Per Event", "Successful Events", "Underperforming Events",
		},
		Rows: [][]string{{
			formatOptional(s.AvgUtilization),
			formatOptional(s.AvgConversionRate),
			formatFloat(s.AvgRevenuePerEvent),
			formatInt(s.SuccessfulEvents),
			formatInt(s.UnderperformingEvents),
		}},
	}
}

func eventPerformanceTable(events []domain.EventPerformance) Table {
	t := Table{
		Name: domain.SectionEventPerformance,
		Headers: []string{
			"Event ID", "Title", "Max Attendees", "Registrations", "Confirmed",
			"Revenue", "Utilization %", "Conversion %", "Rating",
		},
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			formatID(e.EventID),
			e.Title,
			formatInt(e.MaxAttendees),
			formatInt(e.TotalRegistrations),
			formatInt(e.Confirmed),
			formatFloat(e.Revenue),
			formatOptional(e.Utilization),
			formatOptional(e.ConversionRate),
			e.Rating,
		})
	}
	return t
}

func monthlyTrendTable(points []domain.MonthlyTrendPoint) Table {
	t := Table{
		Name:    domain.SectionMonthlyTrend,
		Headers: []string{"Month", "Events", "Tickets Sold", "Revenue"},
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{
			p.Month,
			formatInt(p.Events),
			formatInt(p.TicketsSold),
			formatFloat(p.Revenue),
		})
	}
	return t
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return na
	}
	return formatFloat(*v)
}
