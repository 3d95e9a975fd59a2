package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"canopy/internal/cache"
	"canopy/internal/model"
	"canopy/internal/repository"
)

const (
	speciesCacheTTL     = 5 * time.Minute
	defaultSpeciesLimit = 20
	maxSpeciesLimit     = 100
)

// SpeciesService serves the species and planting reason lookup data.
type SpeciesService interface {
	Search(ctx context.Context, query string, limit int) ([]model.TreeSpecies, error)
	ListReasons(ctx context.Context) ([]model.PlantingReason, error)
}

type speciesService struct {
	speciesRepo repository.SpeciesRepository
	reasonRepo  repository.ReasonRepository
	cache       *cache.Client
}

// NewSpeciesService builds a SpeciesService with repositories and cache.
func NewSpeciesService(speciesRepo repository.SpeciesRepository, reasonRepo repository.ReasonRepository, cache *cache.Client) SpeciesService {
	return &speciesService{
		speciesRepo: speciesRepo,
		reasonRepo:  reasonRepo,
		cache:       cache,
	}
}

// Search returns species matching the query, newest first, cached briefly.
func (s *speciesService) Search(ctx context.Context, query string, limit int) ([]model.TreeSpecies, error) {
	if limit <= 0 {
		limit = defaultSpeciesLimit
	}
	if limit > maxSpeciesLimit {
		limit = maxSpeciesLimit
	}

	key := fmt.Sprintf("species:%s:%d", query, limit)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.TreeSpecies
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	species, err := s.speciesRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(species); err == nil {
		_ = s.cache.Set(ctx, key, payload, speciesCacheTTL)
	}
	return species, nil
}

// ListReasons returns the planting reason lookup table.
func (s *speciesService) ListReasons(ctx context.Context) ([]model.PlantingReason, error) {
	return s.reasonRepo.List(ctx)
}
