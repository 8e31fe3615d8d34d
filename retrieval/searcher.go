package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ward-lab/contract"
	"ward-lab/domain"
	"ward-lab/errors"
)

// Searcher combines a retrieval engine with the ranker. It widens the
// engine request to RetrievalFloor candidates and re-ranks them down to
// the caller's topK.
type Searcher struct {
	engine contract.RetrievalEngine
	ranker *Ranker
	log    *slog.Logger
}

func NewSearcher(engine contract.RetrievalEngine, ranker *Ranker, log *slog.Logger) *Searcher {
	return &Searcher{engine: engine, ranker: ranker, log: log}
}

// Search retrieves and ranks evidence for a query.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]domain.EvidenceItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.ErrEmptyQuery
	}
	retrievalK := max(topK, RetrievalFloor)
	hits, err := s.engine.Query(ctx, query, retrievalK)
	if err != nil {
		return nil, fmt.Errorf("rag_query_failed: %w", err)
	}
	s.log.Debug("Retrieval returned candidates", "count", len(hits), "requested", retrievalK)

	items := s.ranker.Rank(query, topK, hits)
	if len(items) == 0 {
		return nil, errors.ErrNoEvidence
	}
	return items, nil
}

// ComposeQuery builds the retrieval query string from the request parts
// in a fixed order, skipping empty parts, joined by single spaces.
func ComposeQuery(req domain.AssessmentRequest, transcript, fusedSummary string) string {
	parts := []string{req.Chief, req.History, req.InternPlan, transcript, fusedSummary}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
