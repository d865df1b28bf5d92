// Package export renders finished analysis reports as downloadable
// spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oplens/oplens/internal/models"
	"github.com/oplens/oplens/internal/utils"
)

const (
	sheetOverview   = "Overview"
	sheetPosts      = "Posts"
	sheetSentiment  = "Sentiment"
	sheetKeywords   = "Keywords"
	sheetRiskAlerts = "Risk Alerts"
)

// Accent colors per sentiment class, shared with the web UI.
var sentimentColors = map[models.Sentiment]string{
	models.SentimentPositive: "22C55E",
	models.SentimentNeutral:  "3B82F6",
	models.SentimentNegative: "EF4444",
}

var levelColors = map[string]string{
	"high":   "EF4444",
	"medium": "F59E0B",
	"low":    "3B82F6",
}

// ExcelExporter renders an AnalysisReport as a multi-sheet workbook.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export builds the workbook in memory. The Risk Alerts sheet only exists
// when the report carries at least one alert.
func (e *ExcelExporter) Export(report *models.AnalysisReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("[ExcelExporter] Failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetPosts, sheetSentiment, sheetKeywords} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	if len(report.RiskAlerts) > 0 {
		if _, err := f.NewSheet(sheetRiskAlerts); err != nil {
			return nil, err
		}
	}

	if err := e.writeOverview(f, styles, report); err != nil {
		return nil, fmt.Errorf("overview sheet: %w", err)
	}
	if err := e.writePosts(f, styles, report.Posts); err != nil {
		return nil, fmt.Errorf("posts sheet: %w", err)
	}
	if err := e.writeSentiment(f, styles, report.SentimentDistribution); err != nil {
		return nil, fmt.Errorf("sentiment sheet: %w", err)
	}
	if err := e.writeKeywords(f, styles, report.TopKeywords); err != nil {
		return nil, fmt.Errorf("keywords sheet: %w", err)
	}
	if len(report.RiskAlerts) > 0 {
		if err := e.writeRiskAlerts(f, styles, report.RiskAlerts); err != nil {
			return nil, fmt.Errorf("risk alerts sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	slog.Info("[ExcelExporter] Workbook rendered",
		slog.String("analysis_id", report.AnalysisID),
		slog.Int("bytes", buf.Len()))

	return buf, nil
}

func (e *ExcelExporter) writeOverview(f *excelize.File, styles *workbookStyles, report *models.AnalysisReport) error {
	w := &sheetWriter{f: f, sheet: sheetOverview}

	w.set("A1", "Public Opinion Analysis Report")
	w.merge("A1", "D1")
	w.style("A1", "D1", styles.title)
	if w.err == nil {
		w.err = f.SetRowHeight(sheetOverview, 1, 30)
	}

	keyword := "not specified"
	if report.SearchKeyword != nil && *report.SearchKeyword != "" {
		keyword = *report.SearchKeyword
	}

	info := []struct {
		label string
		value any
	}{
		{"Report ID", report.AnalysisID},
		{"Generated At", formatCreatedAt(report.CreatedAt)},
		{"Search Keyword", keyword},
		{"Posts Identified", report.TotalPosts},
	}
	row := 3
	for _, item := range info {
		w.set(fmt.Sprintf("A%d", row), item.label)
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.boldLabel)
		w.set(fmt.Sprintf("B%d", row), item.value)
		row++
	}

	row++
	w.set(fmt.Sprintf("A%d", row), "Sentiment Distribution")
	w.merge(fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
	w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), styles.section)

	row++
	w.set(fmt.Sprintf("A%d", row), "Sentiment")
	w.set(fmt.Sprintf("B%d", row), "Count")
	w.set(fmt.Sprintf("C%d", row), "Share")
	w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), styles.tableHead)

	for _, line := range distributionRows(report.SentimentDistribution) {
		row++
		w.set(fmt.Sprintf("A%d", row), sentimentLabel(line.class))
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.badge[line.class])
		w.set(fmt.Sprintf("B%d", row), line.count)
		w.set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.1f%%", line.ratio*100))
	}

	w.colWidth("A", 20)
	w.colWidth("B", 30)
	w.colWidth("C", 15)
	w.colWidth("D", 15)

	return w.err
}

func (e *ExcelExporter) writePosts(f *excelize.File, styles *workbookStyles, posts []models.Post) error {
	w := &sheetWriter{f: f, sheet: sheetPosts}

	headers := []string{"#", "Title", "Content Digest", "Sentiment", "Likes", "Comments", "Keywords"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		w.set(cell, header)
	}
	w.style("A1", "G1", styles.postsHeader)

	for i, post := range posts {
		row := i + 2

		w.set(fmt.Sprintf("A%d", row), i+1)
		w.set(fmt.Sprintf("B%d", row), post.Title)
		if post.Content != "" {
			w.set(fmt.Sprintf("C%d", row), utils.TruncateRunes(post.Content, 100)+"...")
		}

		w.set(fmt.Sprintf("D%d", row), sentimentLabel(post.Sentiment))
		w.style(fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), styles.badge[post.Sentiment])

		if post.Likes != nil {
			w.set(fmt.Sprintf("E%d", row), *post.Likes)
		}
		if post.Comments != nil {
			w.set(fmt.Sprintf("F%d", row), *post.Comments)
		}

		keywords := post.Keywords
		if len(keywords) > 5 {
			keywords = keywords[:5]
		}
		w.set(fmt.Sprintf("G%d", row), strings.Join(keywords, ", "))
	}

	w.colWidth("A", 8)
	w.colWidth("B", 40)
	w.colWidth("C", 50)
	w.colWidth("D", 12)
	w.colWidth("E", 12)
	w.colWidth("F", 12)
	w.colWidth("G", 30)
	w.freezeTopRow()

	return w.err
}

func (e *ExcelExporter) writeSentiment(f *excelize.File, styles *workbookStyles, dist models.SentimentDistribution) error {
	w := &sheetWriter{f: f, sheet: sheetSentiment}

	w.set("A1", "Sentiment Distribution Statistics")
	w.merge("A1", "E1")
	w.style("A1", "E1", styles.subtitle)

	headers := []string{"Sentiment", "Count", "Share", "Share (%)", "Trend"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		w.set(cell, header)
	}
	w.style("A2", "E2", styles.tableHead)

	row := 3
	for _, line := range distributionRows(dist) {
		w.set(fmt.Sprintf("A%d", row), sentimentLabel(line.class))
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.boldLabel)
		w.set(fmt.Sprintf("B%d", row), line.count)
		w.set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f%%", line.ratio*100))
		w.set(fmt.Sprintf("D%d", row), line.ratio*100)
		w.style(fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), styles.centered)

		w.set(fmt.Sprintf("E%d", row), trendBar(line.ratio))
		w.style(fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), styles.trendBar[line.class])

		row++
	}

	w.colWidth("A", 15)
	w.colWidth("B", 12)
	w.colWidth("C", 15)
	w.colWidth("D", 12)
	w.colWidth("E", 30)

	return w.err
}

func (e *ExcelExporter) writeKeywords(f *excelize.File, styles *workbookStyles, keywords []models.KeywordStat) error {
	w := &sheetWriter{f: f, sheet: sheetKeywords}

	headers := []string{"Rank", "Keyword", "Count", "Sentiment"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		w.set(cell, header)
	}
	w.style("A1", "D1", styles.keywordsHeader)

	for i, kw := range keywords {
		row := i + 2

		w.set(fmt.Sprintf("A%d", row), i+1)
		w.set(fmt.Sprintf("B%d", row), kw.Word)
		w.set(fmt.Sprintf("C%d", row), kw.Count)
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.centered)
		w.style(fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), styles.centered)

		w.set(fmt.Sprintf("D%d", row), sentimentLabel(kw.Sentiment))
		w.style(fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), styles.badge[kw.Sentiment])
	}

	w.colWidth("A", 8)
	w.colWidth("B", 25)
	w.colWidth("C", 15)
	w.colWidth("D", 15)
	w.freezeTopRow()

	return w.err
}

func (e *ExcelExporter) writeRiskAlerts(f *excelize.File, styles *workbookStyles, alerts []models.RiskAlert) error {
	w := &sheetWriter{f: f, sheet: sheetRiskAlerts}

	w.set("A1", "Level")
	w.set("B1", "Description")
	w.style("A1", "B1", styles.alertsHeader)

	for i, alert := range alerts {
		row := i + 2

		w.set(fmt.Sprintf("A%d", row), levelLabel(alert.Level))
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), levelStyle(styles, alert.Level))
		w.set(fmt.Sprintf("B%d", row), alert.Description)
	}

	w.colWidth("A", 15)
	w.colWidth("B", 80)

	return w.err
}

// trendBar renders a ratio as a row of filled blocks. Exported reports come
// back over the wire unvalidated, so a negative ratio yields an empty bar.
func trendBar(ratio float64) string {
	blocks := int(ratio * 20)
	if blocks < 0 {
		blocks = 0
	}
	return strings.Repeat("█", blocks)
}

type distributionRow struct {
	class models.Sentiment
	count int
	ratio float64
}

func distributionRows(dist models.SentimentDistribution) []distributionRow {
	return []distributionRow{
		{models.SentimentPositive, dist.PositiveCount, dist.PositiveRatio},
		{models.SentimentNeutral, dist.NeutralCount, dist.NeutralRatio},
		{models.SentimentNegative, dist.NegativeCount, dist.NegativeRatio},
	}
}

func sentimentLabel(class models.Sentiment) string {
	switch class {
	case models.SentimentPositive:
		return "Positive"
	case models.SentimentNegative:
		return "Negative"
	default:
		return "Neutral"
	}
}

// levelLabel renders known alert levels with a fixed label; anything the
// model invented is displayed as low severity, matching the badge color.
func levelLabel(level string) string {
	switch level {
	case "high":
		return "High"
	case "medium":
		return "Medium"
	default:
		return "Low"
	}
}

func levelStyle(styles *workbookStyles, level string) int {
	if id, ok := styles.levelBadge[level]; ok {
		return id
	}
	return styles.levelBadge["low"]
}

func formatCreatedAt(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("2006-01-02 15:04:05")
}
