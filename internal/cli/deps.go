package cli

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/config"
)

// newClassifier builds the categorization engine from configuration: the
// rule set from CATEGORY_RULES_PATH (embedded defaults otherwise) and the
// semantic layer from EMBEDDER.
func newClassifier(ctx context.Context, cfg config.CategoryConfig) (*categorizer.Classifier, error) {
	rs, err := loadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	var emb categorizer.Embedder
	switch cfg.Embedder {
	case config.EmbedderHash:
		emb = categorizer.NewHashEmbedder()
	case config.EmbedderGenAI:
		emb, err = categorizer.NewGenAIEmbedder(ctx, cfg.APIKey, cfg.EmbedModel)
		if err != nil {
			return nil, err
		}
	}

	var sem *categorizer.SemanticClassifier
	if emb != nil && len(rs.Exemplars) > 0 {
		sem, err = categorizer.NewSemanticClassifier(ctx, emb, rs.Exemplars)
		if err != nil {
			return nil, errors.Wrap(err, "build semantic layer")
		}
	}
	return categorizer.NewClassifier(rs, sem)
}

func loadRules(path string) (*categorizer.RuleSet, error) {
	if path == "" {
		return categorizer.DefaultRuleSet()
	}
	return categorizer.LoadRuleSet(path)
}
