package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/oplens/oplens/internal/models"
)

// workbookStyles holds every style id the sheets share, registered once per
// workbook.
type workbookStyles struct {
	title          int
	subtitle       int
	section        int
	tableHead      int
	boldLabel      int
	centered       int
	postsHeader    int
	keywordsHeader int
	alertsHeader   int
	badge          map[models.Sentiment]int
	trendBar       map[models.Sentiment]int
	levelBadge     map[string]int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	s := &workbookStyles{
		badge:      make(map[models.Sentiment]int),
		trendBar:   make(map[models.Sentiment]int),
		levelBadge: make(map[string]int),
	}

	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      solidFill("FF2442"),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: solidFill("E8E8E8"),
	}); err != nil {
		return nil, err
	}
	if s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: solidFill("E8E8E8"),
	}); err != nil {
		return nil, err
	}
	if s.tableHead, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solidFill("F0F0F0"),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}
	if s.boldLabel, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return nil, err
	}
	if s.centered, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}

	if s.postsHeader, err = headerStyle(f, "4472C4"); err != nil {
		return nil, err
	}
	if s.keywordsHeader, err = headerStyle(f, "FF6B00"); err != nil {
		return nil, err
	}
	if s.alertsHeader, err = headerStyle(f, "DC2626"); err != nil {
		return nil, err
	}

	for class, color := range sentimentColors {
		badge, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(color),
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		s.badge[class] = badge

		bar, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: color},
		})
		if err != nil {
			return nil, err
		}
		s.trendBar[class] = bar
	}

	for level, color := range levelColors {
		badge, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(color),
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		s.levelBadge[level] = badge
	}

	return s, nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      solidFill(color),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// sheetWriter batches cell writes against one sheet and remembers the first
// error, keeping the sheet builders free of per-cell error plumbing.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(cell string, value any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
}

func (w *sheetWriter) merge(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
}

func (w *sheetWriter) colWidth(col string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, col, col, width)
}

func (w *sheetWriter) freezeTopRow() {
	if w.err != nil {
		return
	}
	w.err = w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
