package categorizer

import (
	"context"
	"fmt"
)

// SemanticClassifier scores a description against per-category exemplar
// sentences. The exemplar vectors are computed once; after that the
// classifier is read-only and can be shared across goroutines.
type SemanticClassifier struct {
	embedder   Embedder
	categories []string
	vectors    [][]float32
}

// NewSemanticClassifier embeds every exemplar sentence up front.
func NewSemanticClassifier(ctx context.Context, embedder Embedder, exemplars []Exemplars) (*SemanticClassifier, error) {
	s := &SemanticClassifier{embedder: embedder}
	for _, group := range exemplars {
		for _, sentence := range group.Sentences {
			vec, err := embedder.Embed(ctx, sentence)
			if err != nil {
				return nil, fmt.Errorf("embed exemplar %q: %w", sentence, err)
			}
			s.categories = append(s.categories, group.Category)
			s.vectors = append(s.vectors, vec)
		}
	}
	if len(s.vectors) == 0 {
		return nil, fmt.Errorf("no exemplar sentences")
	}
	return s, nil
}

// Classify returns the category whose best exemplar is most similar to
// text, with that raw cosine similarity. Ties keep the earlier category.
func (s *SemanticClassifier) Classify(ctx context.Context, text string) (string, float64, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", 0, err
	}

	best := make(map[string]float64)
	var order []string
	for i, ex := range s.vectors {
		sim := Cosine(vec, ex)
		cat := s.categories[i]
		cur, seen := best[cat]
		if !seen {
			order = append(order, cat)
		}
		if !seen || sim > cur {
			best[cat] = sim
		}
	}

	winner := order[0]
	for _, cat := range order[1:] {
		if best[cat] > best[winner] {
			winner = cat
		}
	}
	return winner, best[winner], nil
}

// RescaleSimilarity maps a raw similarity into a confidence comparable to
// rule confidences: [0.5, 1] becomes [0.70, 0.95], lower values are
// multiplied by 1.4, and the result is kept within [0, 0.95].
func RescaleSimilarity(sim float64) float64 {
	var conf float64
	if sim >= 0.5 {
		conf = 0.70 + (sim-0.5)*0.5
	} else {
		conf = sim * 1.4
	}
	return max(0, min(conf, 0.95))
}
