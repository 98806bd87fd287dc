package categorizer

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Chandru1806/MCA/internal/logger"
	"github.com/Chandru1806/MCA/internal/models"
)

var (
	// ErrAlreadyCategorized refuses a second categorization of a statement.
	ErrAlreadyCategorized = errors.New("statement already categorized")
	// ErrNoTransactions is returned for a statement with no rows.
	ErrNoTransactions = errors.New("no transactions found for statement")
	// ErrMissingTransactionID is returned when a row has no Transaction_ID,
	// as when a reject table is passed in place of a standardized one.
	ErrMissingTransactionID = errors.New("transaction has no Transaction_ID")
)

// PredictionStore persists predictions. SavePredictions must fail with an
// error wrapping ErrAlreadyCategorized when any transaction of the statement
// already has a prediction, so concurrent runs cannot both succeed.
type PredictionStore interface {
	CountForStatement(ctx context.Context, statementID string) (int, error)
	SavePredictions(ctx context.Context, statementID string, preds []models.CategoryPrediction) error
}

// Recorder observes predictions, typically for metrics.
type Recorder interface {
	PredictionMade(category string, method models.ClassificationMethod)
}

// Service categorizes whole statements.
type Service struct {
	classifier *Classifier
	store      PredictionStore
	recorder   Recorder
	workers    int
}

// NewService wires a classifier to a store. recorder may be nil.
func NewService(classifier *Classifier, store PredictionStore, recorder Recorder, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{classifier: classifier, store: store, recorder: recorder, workers: workers}
}

// CategorizeStatement predicts a category for every transaction of a
// statement and stores the predictions in one batch. A statement that
// already has predictions is refused, never overwritten.
func (s *Service) CategorizeStatement(ctx context.Context, statementID string, txns []models.CanonicalTransaction) ([]models.CategoryPrediction, error) {
	log := logger.FromContext(ctx).With().Str("statement", statementID).Logger()

	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	for i, t := range txns {
		if t.TransactionID == "" {
			return nil, errors.Wrapf(ErrMissingTransactionID, "row %d", i+1)
		}
	}
	existing, err := s.store.CountForStatement(ctx, statementID)
	if err != nil {
		return nil, errors.Wrap(err, "count existing predictions")
	}
	if existing > 0 {
		return nil, errors.Wrapf(ErrAlreadyCategorized, "%d predictions exist", existing)
	}

	preds := make([]models.CategoryPrediction, len(txns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, t := range txns {
		g.Go(func() error {
			p, err := s.classifier.Predict(gctx, t.Description)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Err(err).Str("transaction", t.TransactionID).Msg("semantic layer unavailable, using rules")
			}
			p.TransactionID = t.TransactionID
			p.Confidence = round2(p.Confidence)
			preds[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.SavePredictions(ctx, statementID, preds); err != nil {
		return nil, errors.Wrap(err, "save predictions")
	}
	if s.recorder != nil {
		for _, p := range preds {
			s.recorder.PredictionMade(p.CategoryName, p.Method)
		}
	}
	log.Info().Int("transactions", len(preds)).Msg("statement categorized")
	return preds, nil
}

// CategorizeRows predicts without persisting, for file-based runs.
func (s *Service) CategorizeRows(ctx context.Context, txns []models.CanonicalTransaction) []models.CategorizedTransaction {
	log := logger.FromContext(ctx)
	out := make([]models.CategorizedTransaction, len(txns))
	for i, t := range txns {
		p, err := s.classifier.Predict(ctx, t.Description)
		if err != nil {
			log.Warn().Err(err).Str("transaction", t.TransactionID).Msg("semantic layer unavailable, using rules")
		}
		p.Confidence = round2(p.Confidence)
		out[i] = models.Categorized(t, p)
		if s.recorder != nil {
			s.recorder.PredictionMade(p.CategoryName, p.Method)
		}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
