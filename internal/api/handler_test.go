package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/ingest"
	"github.com/Chandru1806/MCA/internal/metrics"
	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/store"
	"github.com/Chandru1806/MCA/internal/writer"
)

const extractedStatement = "CITY UNION BANK\nStatement of account\n" +
	"01-04-2023 NWD ATM CASH WDL 5,000.00 15,000.00\n" +
	"02-04-2023 SALARY APRIL 20,000.00 35,000.00" +
	extractorPageBreak +
	"03-04-2023 UPI/P2M/312345678901/ZOMATO LTD/PAY 300.00 34,700.00\n"

const extractorPageBreak = "\n---PAGE_BREAK---\n"

type testEnv struct {
	app    *fiber.App
	outDir string
	rec    *metrics.Recorder
}

func setupTestApp(t *testing.T) testEnv {
	t.Helper()
	outDir := t.TempDir()

	rec := metrics.New()
	pipe := ingest.New(outDir, 1)
	pipe.Recorder = rec

	rs, err := categorizer.DefaultRuleSet()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	cls, err := categorizer.NewClassifier(rs, nil)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := &Handler{
		Pipeline:    pipe,
		Categorizer: categorizer.NewService(cls, db, rec, 2),
		Predictions: db,
		Gatherer:    rec.Registry,
	}
	return testEnv{app: NewApp(h, 0), outDir: outDir, rec: rec}
}

func multipartRequest(t *testing.T, url string, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.Close()

	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]string
	decode(t, resp, &result)

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}

	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestIngestEndpointRequiresFile(t *testing.T) {
	env := setupTestApp(t)

	req := multipartRequest(t, "/api/ingest", map[string]string{"bank": "hdfc"}, "", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", resp.StatusCode)
	}

	req = multipartRequest(t, "/api/ingest", nil, "notes.txt", []byte("hello"))
	resp, _ = env.app.Test(req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for non-PDF upload, got %d", resp.StatusCode)
	}
}

func TestIngestExtractedText(t *testing.T) {
	env := setupTestApp(t)

	req := multipartRequest(t, "/api/ingest", map[string]string{"extractedText": extractedStatement}, "april.pdf", nil)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result IngestResponse
	decode(t, resp, &result)
	if result.Count != 3 {
		t.Fatalf("expected 3 transactions, got %d (%+v)", result.Count, result.Rejected)
	}
	if result.Bank != "UNKNOWN" {
		t.Errorf("expected UNKNOWN bank, got %q", result.Bank)
	}
	if !strings.HasSuffix(result.StatementID, "_april__STD_UNKNOWN") {
		t.Errorf("unexpected statement id %q", result.StatementID)
	}
	if _, err := os.Stat(filepath.Join(env.outDir, result.StatementID+".csv")); err != nil {
		t.Errorf("standardized CSV not written: %v", err)
	}
}

func TestCategorizeFlow(t *testing.T) {
	env := setupTestApp(t)

	std := []models.CanonicalTransaction{
		{TransactionID: "a1", TransactionDate: "2023-04-01", Description: "NWD ATM CASH WDL", DebitAmount: "5000.00", CreditAmount: "0.00", Balance: "15000.00", BankName: "HDFC"},
		{TransactionID: "a2", TransactionDate: "2023-04-02", Description: "UPI/P2M/312345678901/ZOMATO LTD/PAY", DebitAmount: "300.00", CreditAmount: "0.00", Balance: "14700.00", BankName: "HDFC"},
	}
	if err := writer.WriteCSVFile(filepath.Join(env.outDir, "stmt1.csv"), std); err != nil {
		t.Fatal(err)
	}

	resp, err := env.app.Test(httptest.NewRequest("POST", "/api/categorize/stmt1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result CategorizeResponse
	decode(t, resp, &result)
	if len(result.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(result.Predictions))
	}
	if result.Predictions[0].CategoryName != models.CategoryATM {
		t.Errorf("expected ATM, got %q", result.Predictions[0].CategoryName)
	}

	// A second attempt is refused, not overwritten.
	resp, _ = env.app.Test(httptest.NewRequest("POST", "/api/categorize/stmt1", nil), -1)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}

	resp, _ = env.app.Test(httptest.NewRequest("GET", "/api/categorize/stmt1", nil), -1)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 listing predictions, got %d", resp.StatusCode)
	}
	decode(t, resp, &result)
	if len(result.Predictions) != 2 || result.Predictions[1].CategoryName != models.CategoryFood {
		t.Errorf("unexpected stored predictions: %+v", result.Predictions)
	}
}

func TestCategorizeErrors(t *testing.T) {
	env := setupTestApp(t)
	if err := writer.WriteCSVFile(filepath.Join(env.outDir, "empty.csv"), []models.CanonicalTransaction{}); err != nil {
		t.Fatal(err)
	}
	rejects := []models.RejectedRow{{BankName: "HDFC", RawDate: "01/04/23", RawNarration: "garbled", Reason: string(models.ReasonBadBalance)}}
	if err := writer.WriteCSVFile(filepath.Join(env.outDir, "x__REJECTS_HDFC.csv"), rejects); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/categorize/missing", fiber.StatusNotFound},
		{"/api/categorize/empty", fiber.StatusNotFound},
		{"/api/categorize/bad%20id", fiber.StatusBadRequest},
		{"/api/categorize/.hidden", fiber.StatusBadRequest},
		{"/api/categorize/x__REJECTS_HDFC", fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		resp, err := env.app.Test(httptest.NewRequest("POST", tt.path, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", tt.path, err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.want, resp.StatusCode)
		}
	}
}

func TestRepairEndpoint(t *testing.T) {
	env := setupTestApp(t)

	collapsed := "Transaction_Date,Description,Debit_Amount,Credit_Amount,Balance\n" +
		"\"2023-04-01\n2023-04-02\",\"ATM\nSALARY\",\"100.00\n\",\"\n5000.00\",\"900.00\n5900.00\"\n"
	req := multipartRequest(t, "/api/repair", map[string]string{"bank": "hdfc"}, "x__REJECTS_HDFC.csv", []byte(collapsed))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result RepairResponse
	decode(t, resp, &result)
	if result.Count != 2 {
		t.Fatalf("expected 2 recovered rows, got %d", result.Count)
	}
	if result.Recovered[1].CreditAmount != "5000.00" || result.Recovered[1].BankName != "HDFC" {
		t.Errorf("unexpected second row: %+v", result.Recovered[1])
	}

	flat := "Transaction_Date,Description,Debit_Amount,Credit_Amount,Balance\n2023-04-01,ATM,100.00,,900.00\n"
	req = multipartRequest(t, "/api/repair", nil, "flat.csv", []byte(flat))
	resp, _ = env.app.Test(req)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a flat table, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestApp(t)
	env.rec.PredictionMade(models.CategoryFood, models.MethodRuleBased)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `statement_predictions_total{category="Food",method="RULE_BASED"} 1`) {
		t.Errorf("metrics output missing prediction counter:\n%s", body)
	}
}
