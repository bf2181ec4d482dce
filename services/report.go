package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
)

type ReportService struct {
	Store    database.Repository
	Location *time.Location
}

func NewReportService(store database.Repository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{Store: store, Location: loc}
}

// HourlyCovers sums confirmed party sizes per opening hour, 09 through 22.
func HourlyCovers(reservations []models.Reservation, loc *time.Location) []int {
	covers := make([]int, ClosingHour-OpeningHour+1)
	for _, r := range reservations {
		if r.Status != models.StatusConfirmed {
			continue
		}
		h := r.ReservationTime.In(loc).Hour()
		if h >= OpeningHour && h <= ClosingHour {
			covers[h-OpeningHour] += r.PartySize
		}
	}
	return covers
}

// DaySheet writes a PDF of the day's reservations to w.
func (rp *ReportService) DaySheet(ctx context.Context, date time.Time, w io.Writer) error {
	y, m, d := date.In(rp.Location).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, rp.Location)

	reservations, err := rp.Store.ListReservations(ctx, database.ReservationFilter{Date: &day})
	if err != nil {
		return storeErr("list reservations", err)
	}
	tables, err := rp.Store.ListTables(ctx)
	if err != nil {
		return storeErr("list tables", err)
	}
	numbers := make(map[uint]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.TableNumber
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := "Reservations " + day.Format("Monday 02 January 2006")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d reservations", len(reservations)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	covers := HourlyCovers(reservations, rp.Location)
	png, err := coversChart(covers)
	if err != nil {
		return err
	}
	if png != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("covers", opts, bytes.NewReader(png))
		pdf.ImageOptions("covers", 10, pdf.GetY(), 190, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	widths := []float64{25, 20, 20, 30, 95}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Time", "Table", "Party", "Status", "Requests"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range reservations {
		requests := ""
		if r.SpecialRequests != nil {
			requests = truncate(*r.SpecialRequests, 50)
		}
		pdf.CellFormat(widths[0], 6, r.ReservationTime.In(rp.Location).Format("15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", numbers[r.TableID]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", r.PartySize), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, string(r.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, tr(requests), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// coversChart renders the hourly covers as a PNG bar chart, or nil when empty.
func coversChart(covers []int) ([]byte, error) {
	total := 0
	bars := make([]chart.Value, 0, len(covers))
	for i, c := range covers {
		total += c
		bars = append(bars, chart.Value{Value: float64(c), Label: fmt.Sprintf("%02d", OpeningHour+i)})
	}
	if total == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      "Confirmed covers per hour",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      760,
		Height:     300,
		BarWidth:   30,
		BarSpacing: 18,
		Bars:       bars,
	}
	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render covers chart: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
