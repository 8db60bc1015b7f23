// Package export serializes generated reports into the downloadable formats
// the organizer dashboard offers: CSV, a real XLSX workbook, and a
// print-oriented HTML document standing in for PDF.
package export

import (
	"fmt"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// Render produces the bytes, MIME type and download filename for a report in
// the requested format. FormatWeb is the caller's concern (JSON) and is not
// handled here.
func Render(report domain.Report, format domain.ReportFormat) (body []byte, contentType, filename string, err error) {
	switch format {
	case domain.FormatCSV:
		body, err = CSV(report)
		return body, "text/csv; charset=utf-8", Filename(report, "csv"), err
	case domain.FormatExcel:
		body, err = Excel(report)
		return body, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Filename(report, "xlsx"), err
	case domain.FormatPDF:
		body, err = PDFDocument(report)
		return body, "text/html; charset=utf-8", Filename(report, "html"), err
	}
	return nil, "", "", fmt.Errorf("format %q is not exportable", format)
}

// Filename follows the dashboard's download naming:
// {type}_report_{start}_{end}.{ext}.
func Filename(report domain.Report, ext string) string {
	return fmt.Sprintf("%s_report_%s_%s.%s",
		report.Type,
		report.Range.Start.Format(dateLayout),
		report.Range.End.Format(dateLayout),
		ext,
	)
}
