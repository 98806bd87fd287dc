package categorizer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chandru1806/MCA/internal/models"
)

type memStore struct {
	mu    sync.Mutex
	saved map[string][]models.CategoryPrediction
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string][]models.CategoryPrediction)}
}

func (m *memStore) CountForStatement(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved[id]), nil
}

func (m *memStore) SavePredictions(_ context.Context, id string, preds []models.CategoryPrediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved[id]) > 0 {
		return ErrAlreadyCategorized
	}
	m.saved[id] = preds
	return nil
}

type countingRecorder struct {
	mu   sync.Mutex
	seen map[string]int
}

func (c *countingRecorder) PredictionMade(category string, _ models.ClassificationMethod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = make(map[string]int)
	}
	c.seen[category]++
}

func statementRows() []models.CanonicalTransaction {
	return []models.CanonicalTransaction{
		{TransactionID: "t1", Description: "NWD ATM CASH WDL CHE004"},
		{TransactionID: "t2", Description: "UPI/P2M/312345678901/ZOMATO LTD/PAY"},
		{TransactionID: "t3", Description: "mystery payee"},
		{TransactionID: "t4", Description: "HOTEL DOWN"},
	}
}

func TestCategorizeStatement(t *testing.T) {
	sem := newStubSemantic(t, map[string][]float32{"mystery payee": {0.8, 0.6, 0}}, "HOTEL DOWN")
	store := newMemStore()
	rec := &countingRecorder{}
	svc := NewService(defaultClassifier(t, sem), store, rec, 3)

	preds, err := svc.CategorizeStatement(context.Background(), "stmt-1", statementRows())
	require.NoError(t, err)
	require.Len(t, preds, 4)

	assert.Equal(t, "t1", preds[0].TransactionID)
	assert.Equal(t, models.CategoryATM, preds[0].CategoryName)
	assert.Equal(t, models.MethodRuleBased, preds[0].Method)

	assert.Equal(t, models.CategoryFood, preds[1].CategoryName)
	assert.Equal(t, "zomato ltd", preds[1].Merchant)

	assert.Equal(t, models.CategoryFood, preds[2].CategoryName)
	assert.Equal(t, 0.85, preds[2].Confidence, "rounded to two places")
	assert.Equal(t, models.MethodHybrid, preds[2].Method)
	assert.Equal(t, models.CategoryOther, preds[2].RuleBasedPrediction)

	assert.Equal(t, models.CategoryFood, preds[3].CategoryName, "embedding failure falls back to rules")
	assert.Empty(t, preds[3].MLPrediction)

	assert.Len(t, store.saved["stmt-1"], 4)
	assert.Equal(t, 3, rec.seen[models.CategoryFood])
}

func TestCategorizeStatement_Refusals(t *testing.T) {
	store := newMemStore()
	svc := NewService(defaultClassifier(t, nil), store, nil, 1)
	ctx := context.Background()

	_, err := svc.CategorizeStatement(ctx, "empty", nil)
	assert.ErrorIs(t, err, ErrNoTransactions)

	rejects := []models.CanonicalTransaction{{Description: "01/04/23 garbled line"}}
	_, err = svc.CategorizeStatement(ctx, "x__REJECTS_HDFC", rejects)
	assert.ErrorIs(t, err, ErrMissingTransactionID)
	assert.Empty(t, store.saved["x__REJECTS_HDFC"])

	_, err = svc.CategorizeStatement(ctx, "stmt", statementRows())
	require.NoError(t, err)

	_, err = svc.CategorizeStatement(ctx, "stmt", statementRows())
	assert.ErrorIs(t, err, ErrAlreadyCategorized)
	assert.Len(t, store.saved["stmt"], 4, "existing predictions untouched")
}

func TestCategorizeRows(t *testing.T) {
	svc := NewService(defaultClassifier(t, nil), newMemStore(), nil, 1)
	out := svc.CategorizeRows(context.Background(), statementRows()[:2])
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].TransactionID)
	assert.Equal(t, models.CategoryATM, out[0].Category)
	assert.Equal(t, 0.95, out[0].Confidence)
}
