package service

import (
	"context"
	"encoding/json"
	"log"

	"payswiftly/internal/domain"
	"payswiftly/internal/redis"
	"payswiftly/internal/repository"
)

// StatsService serves the admin revenue aggregate with a short cache in
// front, so a polling dashboard does not hammer the singleton row.
type StatsService struct {
	statsRepo repository.StatsRepository
	cache     redis.CacheStoreInterface
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo repository.StatsRepository, cache redis.CacheStoreInterface) *StatsService {
	return &StatsService{statsRepo: statsRepo, cache: cache}
}

// Get returns the current admin stats snapshot.
func (s *StatsService) Get(ctx context.Context) (*domain.AdminStats, error) {
	if s.cache != nil {
		data, err := s.cache.GetStats(ctx)
		if err != nil {
			log.Printf("stats cache read: %v", err)
		} else if data != nil {
			var stats domain.AdminStats
			if decodeErr := json.Unmarshal(data, &stats); decodeErr != nil {
				log.Printf("stats cache decode: %v", decodeErr)
			} else {
				return &stats, nil
			}
		}
	}

	stats, err := s.statsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.SetStats(ctx, data); err != nil {
				log.Printf("stats cache write: %v", err)
			}
		}
	}

	return stats, nil
}
