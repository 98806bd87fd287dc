// Package categorizer assigns spending categories to transaction
// descriptions. A deterministic rule layer decides confident cases; an
// optional semantic layer compares the description with exemplar
// sentences when the rules are unsure.
package categorizer

import (
	"context"

	"github.com/Chandru1806/MCA/internal/models"
)

// RuleConfidenceThreshold is the rule confidence at or above which the
// semantic layer is not consulted and the method is RULE_BASED.
const RuleConfidenceThreshold = 0.90

// Classifier is safe for concurrent use.
type Classifier struct {
	rules    *ruleEngine
	semantic *SemanticClassifier
}

// NewClassifier builds a classifier from a rule set. semantic may be nil,
// in which case predictions come from the rules alone.
func NewClassifier(rs *RuleSet, semantic *SemanticClassifier) (*Classifier, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	rules, err := newRuleEngine(rs)
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: rules, semantic: semantic}, nil
}

// RuleClassify runs only the deterministic layer.
func (c *Classifier) RuleClassify(desc string) (string, float64) {
	return c.rules.classify(desc, ExtractMerchant(desc))
}

// Predict classifies one description. The semantic sub-prediction is
// recorded whenever a semantic layer exists, but it can only win when the
// rule confidence is below RuleConfidenceThreshold and its raw similarity
// beats the rule confidence. An embedding failure still returns the rule
// prediction alongside the error.
func (c *Classifier) Predict(ctx context.Context, desc string) (models.CategoryPrediction, error) {
	merchant := ExtractMerchant(desc)
	ruleCat, ruleConf := c.rules.classify(desc, merchant)

	p := models.CategoryPrediction{
		CategoryName:        ruleCat,
		Confidence:          ruleConf,
		Method:              methodFor(ruleConf),
		RuleBasedPrediction: ruleCat,
		Merchant:            merchant,
	}
	if c.semantic == nil {
		return p, nil
	}

	semCat, sim, err := c.semantic.Classify(ctx, desc)
	if err != nil {
		return p, err
	}
	p.MLPrediction = semCat
	if ruleConf < RuleConfidenceThreshold && sim > ruleConf {
		p.CategoryName = semCat
		p.Confidence = RescaleSimilarity(sim)
	}
	return p, nil
}

func methodFor(ruleConf float64) models.ClassificationMethod {
	if ruleConf >= RuleConfidenceThreshold {
		return models.MethodRuleBased
	}
	return models.MethodHybrid
}
