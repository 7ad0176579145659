package service

import (
	"context"

	"esgcheck/internal/catalog"
	"esgcheck/internal/model"
)

// CatalogService exposes the question catalog to the API
type CatalogService struct {
	loader CatalogLoader
}

// NewCatalogService creates a new catalog service
func NewCatalogService(loader CatalogLoader) *CatalogService {
	return &CatalogService{loader: loader}
}

// List returns the current catalog and its provenance
func (s *CatalogService) List(ctx context.Context) (*catalog.Catalog, error) {
	return s.loader.Load(ctx)
}

// Get returns one question of the current catalog
func (s *CatalogService) Get(ctx context.Context, id int) (*model.Question, error) {
	cat, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	q, ok := cat.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}
