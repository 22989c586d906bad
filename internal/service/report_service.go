package service

import (
	"context"
	"fmt"
	"time"

	"pawnshop-service/internal/models"
	"pawnshop-service/internal/redisclient"
	"pawnshop-service/internal/store"
	"pawnshop-service/internal/util"

	"go.uber.org/zap"
)

const reportCacheTTL = 5 * time.Minute

// ReportService serves daily and monthly activity summaries, caching results
// in redis with a database fallback when the cache is unavailable.
type ReportService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewReportService creates a new report service. redis may be nil.
func NewReportService(st *store.Store, redis *redisclient.Client) *ReportService {
	return &ReportService{
		store:  st,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// GetDailySummary returns the aggregated activity for one calendar day
func (s *ReportService) GetDailySummary(ctx context.Context, date string) (*models.DailySummary, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.GetDailySummary")
	defer span.End()

	cacheKey := "daily:" + date

	if s.redis != nil {
		var cached models.DailySummary
		hit, err := s.redis.GetReport(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Report cache read failed, falling back to DB", zap.Error(err))
		} else if hit {
			util.ReportCacheHitsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		} else {
			util.ReportCacheHitsTotal.WithLabelValues("miss").Inc()
		}
	}

	summary, err := s.store.GetDailySummary(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.CacheReport(ctx, cacheKey, summary, reportCacheTTL); err != nil {
			s.logger.Warn("Failed to cache daily summary", zap.Error(err))
		}
	}

	return summary, nil
}

// GetMonthlySummary returns the aggregated activity for one calendar month
func (s *ReportService) GetMonthlySummary(ctx context.Context, year, month int) (*models.MonthlySummary, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.GetMonthlySummary")
	defer span.End()

	cacheKey := fmt.Sprintf("monthly:%04d-%02d", year, month)

	if s.redis != nil {
		var cached models.MonthlySummary
		hit, err := s.redis.GetReport(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Report cache read failed, falling back to DB", zap.Error(err))
		} else if hit {
			util.ReportCacheHitsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		} else {
			util.ReportCacheHitsTotal.WithLabelValues("miss").Inc()
		}
	}

	summary, err := s.store.GetMonthlySummary(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.CacheReport(ctx, cacheKey, summary, reportCacheTTL); err != nil {
			s.logger.Warn("Failed to cache monthly summary", zap.Error(err))
		}
	}

	return summary, nil
}
