package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"dataclean/pkg/contracts/domain"
)

var errNoSheets = errors.New("workbook has no sheets")

// readExcel loads the first worksheet. Row one is the header; cells beyond
// the header width get "Unnamed: i" columns. Cells with a date or time
// number format are rendered as text before inference.
func readExcel(data []byte) (*domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close workbook", slog.String("error", cerr.Error()))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.NewTable(nil)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	copy(header, rows[0])
	for i := len(rows[0]); i < width; i++ {
		header[i] = "Unnamed: " + strconv.Itoa(i)
	}

	body := rows[1:]
	newExcelDates(f, sheets[0]).render(body)
	return buildTable(header, body)
}

type dateKind int

const (
	notDate dateKind = iota
	dateKindDate
	dateKindTime
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutTime     = "15:04:05"
)

// excelDates resolves date-formatted cells of one sheet
type excelDates struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]dateKind
}

func newExcelDates(f *excelize.File, sheet string) *excelDates {
	d := &excelDates{f: f, sheet: sheet, styles: make(map[int]dateKind)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

type dateHit struct {
	row  int
	kind dateKind
	t    time.Time
}

// render replaces serial numbers in date-styled cells of body, whose first
// row is sheet row 2. A date column is written as dates only when none of
// its values carries a time of day.
func (d *excelDates) render(body [][]string) {
	hits := make(map[int][]dateHit)
	for r, row := range body {
		for c, raw := range row {
			if raw == "" {
				continue
			}
			serial, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				continue
			}
			kind := d.kind(axis)
			if kind == notDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, d.date1904)
			if err != nil {
				continue
			}
			hits[c] = append(hits[c], dateHit{row: r, kind: kind, t: t})
		}
	}

	for c, column := range hits {
		layout := layoutDate
		for _, h := range column {
			if h.kind == dateKindDate && !isMidnight(h.t) {
				layout = layoutDateTime
				break
			}
		}
		for _, h := range column {
			if h.kind == dateKindTime {
				body[h.row][c] = h.t.Format(layoutTime)
				continue
			}
			body[h.row][c] = h.t.Format(layout)
		}
	}
}

func (d *excelDates) kind(axis string) dateKind {
	idx, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil || idx == 0 {
		return notDate
	}
	if k, ok := d.styles[idx]; ok {
		return k
	}
	k := notDate
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		k = numFmtKind(style.NumFmt, style.CustomNumFmt)
	}
	d.styles[idx] = k
	return k
}

// numFmtKind classifies a built-in number format id or a custom format code
func numFmtKind(id int, custom *string) dateKind {
	if custom != nil && *custom != "" {
		return formatCodeKind(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22, id >= 27 && id <= 36, id >= 50 && id <= 58:
		return dateKindDate
	case id >= 18 && id <= 21, id >= 45 && id <= 47:
		return dateKindTime
	}
	return notDate
}

// formatCodeKind looks for date tokens in the first section of a custom
// format code, ignoring quoted literals, escapes and bracketed directives
func formatCodeKind(code string) dateKind {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var b strings.Builder
	quoted, bracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case quoted:
			quoted = ch != '"'
		case bracket:
			bracket = ch != ']'
		case ch == '"':
			quoted = true
		case ch == '[':
			bracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	tokens := strings.ToLower(b.String())
	switch {
	case strings.ContainsAny(tokens, "yd"):
		return dateKindDate
	case strings.ContainsAny(tokens, "hs"):
		return dateKindTime
	case strings.ContainsRune(tokens, 'm'):
		return dateKindDate
	}
	return notDate
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
