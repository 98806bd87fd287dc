// Package ingest is the statement boundary: it detects the bank, runs the
// matching parser and standardizes the rows. A failure inside one
// statement becomes a diagnostic reject row and never escapes to the
// rest of a batch.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/logger"
	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/parser"
	"github.com/Chandru1806/MCA/internal/standardizer"
	"github.com/Chandru1806/MCA/internal/writer"
)

// DefaultTraceLines bounds the stack trace stored on a parser_exception row.
const DefaultTraceLines = 20

// Recorder observes per-statement outcomes.
type Recorder interface {
	StatementProcessed(bank models.BankType, std []models.CanonicalTransaction, rejected []models.RejectedRow)
	StatementFailed(bank models.BankType)
}

// Statement is the result of processing one document.
type Statement struct {
	Name         string
	Bank         models.BankType
	Standardized []models.CanonicalTransaction
	Rejected     []models.RejectedRow
	// Err is set when the parser failed; Rejected then holds the single
	// diagnostic row.
	Err error
}

// Quality returns the statement's counts.
func (s Statement) Quality() standardizer.Quality {
	return standardizer.Quality{Standardized: len(s.Standardized), Rejected: len(s.Rejected)}
}

// Output is a processed statement plus the artifacts written for it.
type Output struct {
	Statement
	StandardizedPath string
	RejectsPath      string
	WorkbookPath     string
}

// Source is one statement of a batch. Open is called inside the worker so
// documents are only held open while being parsed.
type Source struct {
	Name string
	Bank models.BankType
	Open func() (extractor.Document, error)
}

// FileSource opens a PDF on disk.
func FileSource(path string, bank models.BankType) Source {
	return Source{
		Name: path,
		Bank: bank,
		Open: func() (extractor.Document, error) { return extractor.Open(path) },
	}
}

// Pipeline processes statements and writes their artifacts.
type Pipeline struct {
	Standardizer *standardizer.Standardizer
	OutputDir    string
	Workbook     bool
	Workers      int
	TraceLines   int
	Recorder     Recorder
	// ParserFor selects the parser for a bank; parser.New when nil.
	ParserFor func(models.BankType) parser.StatementParser
}

// New returns a pipeline writing into outputDir.
func New(outputDir string, workers int) *Pipeline {
	return &Pipeline{
		Standardizer: standardizer.New(),
		OutputDir:    outputDir,
		Workers:      workers,
		TraceLines:   DefaultTraceLines,
	}
}

// NewBatchID returns a short identifier prefixed to every artifact of a
// batch.
func NewBatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Process runs detection, parsing and standardization for one document.
// A hint other than UNKNOWN skips detection.
func (p *Pipeline) Process(ctx context.Context, doc extractor.Document, name string, hint models.BankType) Statement {
	log := logger.FromContext(ctx).With().Str("file", name).Logger()

	bank := models.ParseBankType(string(hint))
	if bank == models.BankUnknown {
		bank = parser.Detect(doc)
	}
	log = log.With().Str("bank", string(bank)).Logger()

	st := Statement{Name: name, Bank: bank}
	rows, err := p.parse(doc, bank)
	if err != nil {
		log.Error().Err(err).Msg("parser failed")
		st.Err = err
		st.Standardized = []models.CanonicalTransaction{}
		st.Rejected = []models.RejectedRow{p.exceptionRow(bank, err)}
		if p.Recorder != nil {
			p.Recorder.StatementFailed(bank)
		}
		return st
	}

	st.Standardized, st.Rejected = p.standardizer().Standardize(rows, bank)
	q := st.Quality()
	log.Info().
		Int("standardized", q.Standardized).
		Int("rejected", q.Rejected).
		Float64("reject_rate", q.RejectRate()).
		Msg("statement quality")
	if p.Recorder != nil {
		p.Recorder.StatementProcessed(bank, st.Standardized, st.Rejected)
	}
	return st
}

// parse runs the bank's parser, turning a panic into an error.
func (p *Pipeline) parse(doc extractor.Document, bank models.BankType) (rows []models.RawRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = errors.Errorf("parser panic: %v", r)
		}
	}()
	newParser := p.ParserFor
	if newParser == nil {
		newParser = parser.New
	}
	rows, err = newParser(bank).Parse(doc)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

func (p *Pipeline) exceptionRow(bank models.BankType, err error) models.RejectedRow {
	return models.RejectedRow{
		BankName: string(bank),
		Reason:   string(models.ReasonParserException),
		Detail:   err.Error(),
		Trace:    truncateLines(fmt.Sprintf("%+v", err), p.traceLines()),
	}
}

// Write stores the standardized and reject tables (and optionally the
// workbook) under the pipeline's output directory.
func (p *Pipeline) Write(batch string, st Statement) (Output, error) {
	out := Output{Statement: st}
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return out, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := writer.BaseName(st.Name)
	out.StandardizedPath = filepath.Join(p.OutputDir, writer.StandardizedName(batch, base, st.Bank))
	out.RejectsPath = filepath.Join(p.OutputDir, writer.RejectsName(batch, base, st.Bank))

	if err := writer.WriteCSVFile(out.StandardizedPath, st.Standardized); err != nil {
		return out, err
	}
	if err := writer.WriteCSVFile(out.RejectsPath, st.Rejected); err != nil {
		return out, err
	}
	if p.Workbook {
		out.WorkbookPath = filepath.Join(p.OutputDir, writer.WorkbookName(batch, base, st.Bank))
		if err := writer.WriteWorkbookFile(out.WorkbookPath, st.Standardized, st.Rejected); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ProcessDocument is Process followed by Write.
func (p *Pipeline) ProcessDocument(ctx context.Context, batch string, doc extractor.Document, name string, hint models.BankType) (Output, error) {
	return p.Write(batch, p.Process(ctx, doc, name, hint))
}

// RunBatch processes sources concurrently under a fresh batch ID. Outputs
// keep the order of sources. A document that cannot be opened counts as
// an empty statement; only artifact write failures abort the batch.
func (p *Pipeline) RunBatch(ctx context.Context, sources []Source) (string, []Output, error) {
	batch := NewBatchID()
	log := logger.FromContext(ctx).With().Str("batch", batch).Logger()
	ctx = logger.WithContext(ctx, log)

	outputs := make([]Output, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, closeDoc := p.open(gctx, src)
			defer closeDoc()

			out, err := p.ProcessDocument(gctx, batch, doc, src.Name, src.Bank)
			if err != nil {
				return errors.Wrapf(err, "write artifacts for %s", src.Name)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return batch, nil, err
	}
	log.Info().Int("statements", len(sources)).Msg("batch complete")
	return batch, outputs, nil
}

func (p *Pipeline) open(ctx context.Context, src Source) (extractor.Document, func()) {
	log := logger.FromContext(ctx)
	doc, err := src.Open()
	if err != nil {
		log.Warn().Err(err).Str("file", src.Name).Msg("document unreadable, treating as empty")
		return extractor.FromText(nil), func() {}
	}
	if c, ok := doc.(interface{ Close() error }); ok {
		return doc, func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Str("file", src.Name).Msg("failed to close document")
			}
		}
	}
	return doc, func() {}
}

func (p *Pipeline) standardizer() *standardizer.Standardizer {
	if p.Standardizer == nil {
		return standardizer.New()
	}
	return p.Standardizer
}

func (p *Pipeline) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p *Pipeline) traceLines() int {
	if p.TraceLines < 1 {
		return DefaultTraceLines
	}
	return p.TraceLines
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n..."
}
