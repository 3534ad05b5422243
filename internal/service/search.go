package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/domain"
	"github.com/websearch-rag/gateway/policy"
)

const defaultMaxResults = 5

// SearchWeb proxies a best-effort search preview to the RAG service.
// Failures are logged and swallowed; callers always get a (possibly
// empty) result list.
func (s *Service) SearchWeb(ctx context.Context, query string, maxResults int) []domain.SearchResult {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := s.rag.Search(ctx, query, maxResults)
	if err != nil {
		s.log.Warn("web search failed", zap.String("query", query), zap.Error(err))
		return []domain.SearchResult{}
	}
	if resp.Results == nil {
		return []domain.SearchResult{}
	}
	return resp.Results
}

// IndexURLs forwards a batch of URLs to the RAG indexing endpoint. URLs
// the index policy blocks are dropped before the call. Failures are
// logged and swallowed; the result reports success=false instead.
func (s *Service) IndexURLs(ctx context.Context, urls []string) domain.IndexResult {
	allowed := make([]string, 0, len(urls))
	for _, u := range urls {
		decision, err := s.policy.EvaluateURL(ctx, u)
		if err != nil {
			s.log.Error("index policy evaluation failed", zap.String("url", u), zap.Error(err))
			continue
		}
		if decision != policy.DecisionAllow {
			s.log.Warn("url blocked by index policy", zap.String("url", u))
			continue
		}
		allowed = append(allowed, u)
	}

	if len(allowed) == 0 {
		return domain.IndexResult{}
	}

	resp, err := s.rag.Index(ctx, allowed)
	if err != nil {
		s.log.Warn("url indexing failed", zap.Int("urls", len(allowed)), zap.Error(err))
		return domain.IndexResult{}
	}
	return domain.IndexResult{Success: true, IndexedCount: resp.IndexedCount}
}
