package dashboard

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"cropline/internal/domain/farm"
)

// RenderReport writes the overview as a one-page A4 PDF, the download behind
// the dashboard's report button.
func RenderReport(w io.Writer, o Overview) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Cropline operations report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Cropline operations report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+o.Summary.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(12)

	sectionTitle(pdf, "Call intake")
	kv(pdf, "Total calls", fmt.Sprintf("%d", o.Summary.TotalCalls))
	kv(pdf, "Average duration", fmt.Sprintf("%.0f s", o.Summary.AvgDurationSeconds))
	kv(pdf, "Calls reporting crop issues", fmt.Sprintf("%d", o.Summary.CropIssueCalls))
	for _, s := range []farm.Sentiment{farm.SentimentPositive, farm.SentimentNeutral, farm.SentimentNegative} {
		kv(pdf, "Sentiment "+string(s), fmt.Sprintf("%d", o.Summary.CallsBySentiment[s]))
	}
	for _, task := range farm.TaskOrder() {
		kv(pdf, "Need raised: "+task.Label(), fmt.Sprintf("%d", o.Summary.NeedCounts[task]))
	}
	pdf.Ln(6)

	sectionTitle(pdf, "Farmer registry")
	kv(pdf, "Registered farmers", fmt.Sprintf("%d", o.Summary.TotalFarmers))
	kv(pdf, "Farmers with open needs", fmt.Sprintf("%d", o.Summary.FarmersWithNeeds))
	kv(pdf, "Average farm size", fmt.Sprintf("%.1f acres", o.Summary.AvgFarmSizeAcres))
	pdf.Ln(6)

	sectionTitle(pdf, "Farm activity sessions")
	kv(pdf, "Sessions", fmt.Sprintf("%d (%d active)", o.Summary.TotalSessions, o.Summary.ActiveSessions))
	kv(pdf, "Completed runs", fmt.Sprintf("%d", o.Summary.CompletedSessions))
	kv(pdf, "Tasks completed", fmt.Sprintf("%d", o.Summary.TasksCompleted))
	kv(pdf, "Farmer fallback rate", fmt.Sprintf("%.0f%%", o.Summary.FallbackRate*100))
	pdf.Ln(6)

	sectionTitle(pdf, "Metric correlation")
	pdf.SetFont("Helvetica", "", 8)
	const cell = 28.0
	pdf.CellFormat(cell+14, 6, "", "1", 0, "L", false, 0, "")
	for _, label := range o.Insights.MetricLabels {
		pdf.CellFormat(cell, 6, label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	for i, label := range o.Insights.MetricLabels {
		pdf.CellFormat(cell+14, 6, label, "1", 0, "L", false, 0, "")
		for j := range o.Insights.MetricLabels {
			pdf.CellFormat(cell, 6, fmt.Sprintf("%.2f", o.Insights.Correlation[i][j]), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	sectionTitle(pdf, "Call volume forecast")
	pdf.SetFont("Helvetica", "", 9)
	for _, month := range o.Insights.Forecast.History {
		kv(pdf, month.Month, fmt.Sprintf("%d calls", month.Calls))
	}
	kv(pdf, o.Insights.Forecast.NextMonth+" (forecast)", fmt.Sprintf("%.1f calls", o.Insights.Forecast.PredictedCalls))

	return pdf.Output(w)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	pdf.CellFormat(70, 5.5, key, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5.5, value, "", 1, "L", false, 0, "")
}
