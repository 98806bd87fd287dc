// Package store persists category predictions in SQLite.
//
// (statement_id, transaction_id) is UNIQUE: a statement can be categorized
// once, and two concurrent runs for the same statement cannot both
// commit. The second one fails with categorizer.ErrAlreadyCategorized.
// Transaction IDs only need to be unique within their statement;
// recovered rows reuse {BANK}_R_00001 and up in every statement.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/models"
)

// SQLiteStore implements categorizer.PredictionStore.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (and creates if needed) the database at path with WAL
// journaling and migrates the schema.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS category_predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		statement_id TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		category_name TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		classification_method TEXT NOT NULL,
		rule_based_prediction TEXT NOT NULL,
		ml_prediction TEXT NOT NULL DEFAULT '',
		merchant_name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE (statement_id, transaction_id)
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_statement
		ON category_predictions(statement_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CountForStatement returns how many predictions exist for a statement.
func (s *SQLiteStore) CountForStatement(ctx context.Context, statementID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM category_predictions WHERE statement_id = ?`, statementID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}

// SavePredictions inserts all predictions in one transaction. Nothing is
// written if any of them conflicts with an existing row.
func (s *SQLiteStore) SavePredictions(ctx context.Context, statementID string, preds []models.CategoryPrediction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO category_predictions
			(statement_id, transaction_id, category_name, confidence_score, classification_method,
			 rule_based_prediction, ml_prediction, merchant_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range preds {
		_, err := stmt.ExecContext(ctx, statementID, p.TransactionID, p.CategoryName, p.Confidence,
			string(p.Method), p.RuleBasedPrediction, p.MLPrediction, p.Merchant, now)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Wrapf(categorizer.ErrAlreadyCategorized, "transaction %s", p.TransactionID)
			}
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

// ListPredictions returns a statement's predictions in insertion order.
func (s *SQLiteStore) ListPredictions(ctx context.Context, statementID string) ([]models.CategoryPrediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, category_name, confidence_score, classification_method,
			rule_based_prediction, ml_prediction, merchant_name
		FROM category_predictions
		WHERE statement_id = ?
		ORDER BY id`, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryPrediction
	for rows.Next() {
		var p models.CategoryPrediction
		var method string
		if err := rows.Scan(&p.TransactionID, &p.CategoryName, &p.Confidence, &method,
			&p.RuleBasedPrediction, &p.MLPrediction, &p.Merchant); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.Method = models.ClassificationMethod(method)
		out = append(out, p)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
