package api

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/ingest"
	"github.com/Chandru1806/MCA/internal/logger"
	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/repair"
	"github.com/Chandru1806/MCA/internal/writer"
)

const version = "2.0.0"

// statementIDPattern keeps statement IDs to a single file name inside the
// output directory.
var statementIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// PredictionLister reads stored predictions back.
type PredictionLister interface {
	ListPredictions(ctx context.Context, statementID string) ([]models.CategoryPrediction, error)
}

// IngestResponse is the JSON response from /api/ingest.
type IngestResponse struct {
	Success      bool                          `json:"success"`
	Error        string                        `json:"error,omitempty"`
	Batch        string                        `json:"batch,omitempty"`
	Bank         string                        `json:"bank,omitempty"`
	StatementID  string                        `json:"statementId,omitempty"`
	Transactions []models.CanonicalTransaction `json:"transactions"`
	Rejected     []models.RejectedRow          `json:"rejected"`
	Count        int                           `json:"count"`
	RejectRate   float64                       `json:"rejectRate"`
	Version      string                        `json:"version,omitempty"`
}

// RepairResponse is the JSON response from the repair endpoints.
type RepairResponse struct {
	Success   bool                          `json:"success"`
	Error     string                        `json:"error,omitempty"`
	Recovered []models.RecoveredRow         `json:"recovered,omitempty"`
	Repaired  []models.CanonicalTransaction `json:"repaired,omitempty"`
	Count     int                           `json:"count"`
	Filled    int                           `json:"filled,omitempty"`
}

// CategorizeResponse is the JSON response from /api/categorize.
type CategorizeResponse struct {
	Success     bool                        `json:"success"`
	Error       string                      `json:"error,omitempty"`
	StatementID string                      `json:"statementId"`
	Predictions []models.CategoryPrediction `json:"predictions"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Pipeline    *ingest.Pipeline
	Categorizer *categorizer.Service
	Predictions PredictionLister
	// Gatherer backs /metrics; the route is not registered when nil.
	Gatherer prometheus.Gatherer
	// UploadDir keeps a copy of every uploaded PDF when set.
	UploadDir string
	Log       *zerolog.Logger
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 50
	}
	app := fiber.New(fiber.Config{
		AppName:      "statement-pipeline",
		BodyLimit:    bodyLimitMB << 20,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	if h.Log != nil {
		log := *h.Log
		app.Use(func(c *fiber.Ctx) error {
			c.SetUserContext(logger.WithContext(c.UserContext(), log))
			return c.Next()
		})
	}
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/ingest", h.HandleIngest)
	app.Post("/api/repair", h.HandleRepair)
	app.Post("/api/repair/balances", h.HandleFillBalances)
	app.Post("/api/categorize/:statementID", h.HandleCategorize)
	app.Get("/api/categorize/:statementID", h.HandlePredictions)
	if h.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"engine":  "fiber",
	})
}

// HandleIngest converts one statement. The form carries either a PDF in
// "file" or client-extracted page text in "extractedText", plus an
// optional "bank" that skips detection.
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	bank := models.ParseBankType(c.FormValue("bank"))
	name := "statement.pdf"
	batch := ingest.NewBatchID()

	var doc extractor.Document
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		doc = extractor.FromExtractedText(text)
		if fh, err := c.FormFile("file"); err == nil {
			name = fh.Filename
		}
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
		}
		name = fh.Filename

		data, err := readUpload(fh)
		if err != nil {
			return err
		}
		if err := h.keepUpload(batch, name, data); err != nil {
			return err
		}
		pdfDoc, err := extractor.OpenBytes(data)
		if err != nil {
			// Unreadable PDFs degrade to an empty statement.
			log := logger.FromContext(c.UserContext())
			log.Warn().Err(err).Str("file", name).Msg("PDF extraction failed")
			doc = extractor.FromText(nil)
		} else {
			defer pdfDoc.Close()
			doc = pdfDoc
		}
	}

	out, err := h.Pipeline.ProcessDocument(c.UserContext(), batch, doc, filepath.Base(name), bank)
	if err != nil {
		return errors.Wrap(err, "write artifacts")
	}

	q := out.Quality()
	return c.JSON(IngestResponse{
		Success:      true,
		Batch:        batch,
		Bank:         string(out.Bank),
		StatementID:  writer.BaseName(out.StandardizedPath),
		Transactions: nonNil(out.Standardized),
		Rejected:     nonNil(out.Rejected),
		Count:        q.Standardized,
		RejectRate:   q.RejectRate(),
		Version:      version,
	})
}

// HandleRepair rebuilds rows from an uploaded collapsed reject table.
func (h *Handler) HandleRepair(c *fiber.Ctx) error {
	records, err := h.uploadedCSV(c)
	if err != nil {
		return err
	}
	rows, err := repair.Repair(records, c.FormValue("bank"))
	if err != nil {
		if errors.Is(err, repair.ErrNotRepairable) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.JSON(RepairResponse{Success: true, Recovered: rows, Count: len(rows)})
}

// HandleFillBalances fills amount gaps of an uploaded standardized table.
func (h *Handler) HandleFillBalances(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	data, err := readUpload(fh)
	if err != nil {
		return err
	}
	txns, err := writer.ReadTransactions(bytes.NewReader(data))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	fixed, n := repair.FillFromBalances(txns)
	return c.JSON(RepairResponse{Success: true, Repaired: fixed, Count: len(fixed), Filled: n})
}

// HandleCategorize categorizes a standardized statement from the output
// directory and stores the predictions.
func (h *Handler) HandleCategorize(c *fiber.Ctx) error {
	id, err := statementID(c)
	if err != nil {
		return err
	}
	path := filepath.Join(h.Pipeline.OutputDir, id+".csv")
	txns, err := writer.ReadTransactionsFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fiber.NewError(fiber.StatusNotFound, "statement not found")
		}
		return err
	}

	preds, err := h.Categorizer.CategorizeStatement(c.UserContext(), id, txns)
	switch {
	case errors.Is(err, categorizer.ErrAlreadyCategorized):
		return fiber.NewError(fiber.StatusConflict, "Statement already categorized")
	case errors.Is(err, categorizer.ErrNoTransactions):
		return fiber.NewError(fiber.StatusNotFound, "No transactions found for statement")
	case errors.Is(err, categorizer.ErrMissingTransactionID):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Not a standardized statement")
	case err != nil:
		return err
	}
	return c.JSON(CategorizeResponse{Success: true, StatementID: id, Predictions: preds})
}

// HandlePredictions returns the stored predictions of a statement.
func (h *Handler) HandlePredictions(c *fiber.Ctx) error {
	id, err := statementID(c)
	if err != nil {
		return err
	}
	if h.Predictions == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "prediction store not configured")
	}
	preds, err := h.Predictions.ListPredictions(c.UserContext(), id)
	if err != nil {
		return err
	}
	if len(preds) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "statement not categorized")
	}
	return c.JSON(CategorizeResponse{Success: true, StatementID: id, Predictions: preds})
}

func (h *Handler) uploadedCSV(c *fiber.Ctx) ([]map[string]string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	data, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	records, err := writer.ReadCSVMaps(bytes.NewReader(data))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return records, nil
}

func (h *Handler) keepUpload(batch, name string, data []byte) error {
	if h.UploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return errors.Wrap(err, "create upload directory")
	}
	path := filepath.Join(h.UploadDir, batch+"_"+filepath.Base(name))
	return errors.Wrap(os.WriteFile(path, data, 0o644), "save upload")
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open upload %s", fh.Filename)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func statementID(c *fiber.Ctx) (string, error) {
	id := c.Params("statementID")
	if !statementIDPattern.MatchString(id) || strings.Contains(id, "..") {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid statement id")
	}
	return id, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		log := logger.FromContext(c.UserContext())
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
