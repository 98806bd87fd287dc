package extractor

import (
	"fmt"
	"strings"
)

// PageBreak separates pages in client-extracted text.
const PageBreak = "\n---PAGE_BREAK---\n"

// Table is one extracted grid: rows of cells, cells may hold newlines when
// the source cell wrapped.
type Table [][]string

// Document is the extraction primitive the parsers consume. Pages are
// numbered from 1.
type Document interface {
	NumPages() int
	TextLines(page int) ([]string, error)
	Tables(page int) ([]Table, error)
}

// Pages is an in-memory Document, used for pre-extracted text and tests.
type Pages struct {
	Lines [][]string
	Grids [][]Table
}

// FromText builds a Document from page texts, one string per page.
func FromText(pages []string) *Pages {
	p := &Pages{}
	for _, page := range pages {
		p.Lines = append(p.Lines, splitLines(page))
	}
	return p
}

// FromExtractedText splits client-side extracted text on PageBreak.
func FromExtractedText(text string) *Pages {
	var pages []string
	for _, page := range strings.Split(text, PageBreak) {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	return FromText(pages)
}

// WithTables attaches table grids to a page (1-based), growing the
// document as needed.
func (p *Pages) WithTables(page int, tables ...Table) *Pages {
	for len(p.Grids) < page {
		p.Grids = append(p.Grids, nil)
	}
	for len(p.Lines) < page {
		p.Lines = append(p.Lines, nil)
	}
	p.Grids[page-1] = append(p.Grids[page-1], tables...)
	return p
}

func (p *Pages) NumPages() int {
	n := len(p.Lines)
	if len(p.Grids) > n {
		n = len(p.Grids)
	}
	return n
}

func (p *Pages) TextLines(page int) ([]string, error) {
	if page < 1 || page > p.NumPages() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if page > len(p.Lines) {
		return nil, nil
	}
	return p.Lines[page-1], nil
}

func (p *Pages) Tables(page int) ([]Table, error) {
	if page < 1 || page > p.NumPages() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if page > len(p.Grids) {
		return nil, nil
	}
	return p.Grids[page-1], nil
}

// AllLines returns the trimmed, non-empty text lines of every page in
// order. Pages that fail to extract contribute nothing.
func AllLines(doc Document) []string {
	var out []string
	for i := 1; i <= doc.NumPages(); i++ {
		lines, err := safeLines(doc, i)
		if err != nil {
			continue
		}
		for _, ln := range lines {
			if ln = strings.TrimSpace(ln); ln != "" {
				out = append(out, ln)
			}
		}
	}
	return out
}

// AllTables returns every table grid of every page in order.
func AllTables(doc Document) []Table {
	var out []Table
	for i := 1; i <= doc.NumPages(); i++ {
		tables, err := safeTables(doc, i)
		if err != nil {
			continue
		}
		out = append(out, tables...)
	}
	return out
}

// FirstPagesText joins the text of the first n pages. Extraction errors
// and panics are swallowed so callers degrade to empty text.
func FirstPagesText(doc Document, n int) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for i := 1; i <= doc.NumPages() && i <= n; i++ {
		lines, err := safeLines(doc, i)
		if err != nil {
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

func safeLines(doc Document, page int) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction crashed on page %d: %v", page, r)
		}
	}()
	return doc.TextLines(page)
}

func safeTables(doc Document, page int) (tables []Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("table extraction crashed on page %d: %v", page, r)
		}
	}()
	return doc.Tables(page)
}

func splitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
