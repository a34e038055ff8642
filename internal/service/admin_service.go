package service

import (
	"context"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/repository/contract"
	redisrepo "insurance-faq-be/internal/repository/redis"
	"insurance-faq-be/internal/repository/specification"
)

type IAdminService interface {
	// ClearCaches flushes the exact tier and truncates the semantic tier.
	// Curated FAQ entries are untouched; they are content, not cache.
	ClearCaches(ctx context.Context) (*dto.ClearCachesResponse, error)
	GetAuditLog(ctx context.Context, limit, offset int) (*dto.AuditListResponse, error)
}

type adminService struct {
	qaCache       *redisrepo.QACache
	semanticCache contract.SemanticCacheRepository
	audits        contract.AuditRepository
	logger        logger.ILogger
}

func NewAdminService(
	qaCache *redisrepo.QACache,
	semanticCache contract.SemanticCacheRepository,
	audits contract.AuditRepository,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		qaCache:       qaCache,
		semanticCache: semanticCache,
		audits:        audits,
		logger:        log,
	}
}

func (s *adminService) ClearCaches(ctx context.Context) (*dto.ClearCachesResponse, error) {
	res := &dto.ClearCachesResponse{}

	if err := s.qaCache.Clear(ctx); err != nil {
		s.logger.Error("admin", "exact cache clear failed", map[string]interface{}{"error": err.Error()})
	} else {
		res.ExactCleared = true
	}

	if err := s.semanticCache.Clear(ctx); err != nil {
		s.logger.Error("admin", "semantic cache clear failed", map[string]interface{}{"error": err.Error()})
	} else {
		res.SemanticCleared = true
	}

	return res, nil
}

func (s *adminService) GetAuditLog(ctx context.Context, limit, offset int) (*dto.AuditListResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	total, err := s.audits.Count(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.audits.FindAll(ctx,
		specification.OrderBy{Column: "created_at", Desc: true},
		specification.Limit{Limit: limit},
		specification.Offset{Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditRecordResponse, len(records))
	for i, r := range records {
		responses[i] = dto.AuditRecordResponse{
			Id:         r.Id.String(),
			SessionID:  r.SessionId,
			ProductID:  r.ProductId,
			Question:   r.Question,
			Answer:     r.Answer,
			Language:   r.Language,
			Cached:     r.Cached,
			DebugTag:   r.DebugTag,
			DurationMs: r.DurationMs,
			CreatedAt:  r.CreatedAt,
		}
	}

	return &dto.AuditListResponse{
		Records: responses,
		Total:   total,
	}, nil
}
