package extractor

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Gaps (in PDF points) used when rebuilding cells from positioned glyphs.
const (
	wordGap  = 1.5 // wider than this inserts a space
	cellGap  = 8.0 // wider than this starts a new cell
	minCells = 3   // rows with fewer cells never open a table
)

// PDFDocument reads text lines and table grids from a PDF with the
// ledongthuc/pdf library.
type PDFDocument struct {
	r      *pdf.Reader
	closer io.Closer
}

// Open opens the PDF at path. Callers must Close it.
func Open(path string) (doc *PDFDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed opening %s: %v", path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", path, err)
	}
	return &PDFDocument{r: r, closer: f}, nil
}

// OpenBytes reads a PDF held in memory, e.g. an uploaded file.
func OpenBytes(data []byte) (doc *PDFDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return &PDFDocument{r: r}, nil
}

func (d *PDFDocument) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

func (d *PDFDocument) NumPages() int {
	return d.r.NumPage()
}

// TextLines uses GetTextByRow, which keeps the visual row layout.
func (d *PDFDocument) TextLines(n int) (lines []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed on page %d: %v", n, rec)
		}
	}()

	page := d.r.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Tables rebuilds grids from positioned text. Glyphs are grouped into rows
// by Y, rows into cells by horizontal gaps, and consecutive rows with at
// least minCells cells form a table whose columns are anchored on its
// widest row.
func (d *PDFDocument) Tables(n int) (tables []Table, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed on page %d: %v", n, rec)
		}
	}()

	page := d.r.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}
	var glyphs []glyph
	for _, t := range page.Content().Text {
		glyphs = append(glyphs, glyph{x: t.X, y: t.Y, w: t.W, s: t.S})
	}
	return buildTables(groupRows(glyphs)), nil
}

type glyph struct {
	x, y, w float64
	s       string
}

type cell struct {
	x0, x1 float64
	text   string
}

// groupRows turns glyphs into rows of cells, top of the page first.
func groupRows(glyphs []glyph) [][]cell {
	byY := make(map[int][]glyph)
	for _, g := range glyphs {
		if g.s == "" {
			continue
		}
		y := int(math.Round(g.y))
		byY[y] = append(byY[y], g)
	}

	ys := make([]int, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	// PDF Y grows upwards
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	rows := make([][]cell, 0, len(ys))
	for _, y := range ys {
		items := byY[y]
		sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

		var cells []cell
		var cur *cell
		for _, g := range items {
			if cur != nil {
				gap := g.x - cur.x1
				if gap > cellGap {
					cells = append(cells, *cur)
					cur = nil
				} else if gap > wordGap && !strings.HasSuffix(cur.text, " ") {
					cur.text += " "
				}
			}
			if cur == nil {
				cur = &cell{x0: g.x}
			}
			cur.text += g.s
			cur.x1 = g.x + g.w
		}
		if cur != nil {
			cells = append(cells, *cur)
		}

		var kept []cell
		for _, c := range cells {
			c.text = strings.TrimSpace(c.text)
			if c.text != "" {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			rows = append(rows, kept)
		}
	}
	return rows
}

// buildTables splits rows into blocks of table-like rows and aligns each
// block on the column anchors of its widest row. A row whose first column
// is empty continues the previous row, the way wrapped narrations do.
func buildTables(rows [][]cell) []Table {
	var tables []Table
	var block [][]cell

	flush := func() {
		if len(block) > 0 {
			if t := alignBlock(block); len(t) > 0 {
				tables = append(tables, t)
			}
		}
		block = nil
	}

	for _, row := range rows {
		switch {
		case len(row) >= minCells:
			block = append(block, row)
		case len(block) > 0 && row[0].x0 >= block[0][1].x0-cellGap:
			// short rows right of the first column are wrapped cell text
			block = append(block, row)
		default:
			flush()
		}
	}
	flush()
	return tables
}

func alignBlock(block [][]cell) Table {
	widest := block[0]
	for _, row := range block {
		if len(row) > len(widest) {
			widest = row
		}
	}
	if len(widest) < minCells {
		return nil
	}
	anchors := make([]float64, len(widest))
	for i, c := range widest {
		anchors[i] = c.x0
	}

	var table Table
	for _, row := range block {
		out := make([]string, len(anchors))
		for _, c := range row {
			col := columnFor(anchors, (c.x0+c.x1)/2)
			if out[col] != "" {
				out[col] += " "
			}
			out[col] += c.text
		}
		if out[0] == "" && len(table) > 0 {
			prev := table[len(table)-1]
			for i, v := range out {
				if v == "" {
					continue
				}
				if prev[i] != "" {
					prev[i] += "\n"
				}
				prev[i] += v
			}
			continue
		}
		table = append(table, out)
	}
	return table
}

func columnFor(anchors []float64, x float64) int {
	col := 0
	for i, a := range anchors {
		if x >= a {
			col = i
		}
	}
	return col
}
