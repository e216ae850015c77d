package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/util"
)

// ProductSearcher is an external full-text index over the catalog.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query, category string, from, size int) ([]models.Product, error)
}

type CatalogService struct {
	Repo *repo.GormRepo
	// Index is optional; when nil or failing, search runs against the database.
	Index ProductSearcher
}

func (s *CatalogService) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx, util.ClampLimit(limit), util.ClampOffset(offset))
}

// Get returns nil without an error when the product does not exist.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Search returns up to util.MaxPageSize products whose name or description
// contains query, ignoring case, within category when one is given.
func (s *CatalogService) Search(ctx context.Context, query, category string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)

	if query == "" && category == "" {
		return s.List(ctx, util.DefaultPageSize, 0)
	}

	if s.Index != nil && query != "" {
		products, err := s.Index.SearchProducts(ctx, query, category, 0, util.MaxPageSize)
		if err == nil {
			return matching(products, query, category), nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to database", "error", err)
	}
	return s.Repo.SearchProducts(ctx, query, category, util.MaxPageSize)
}

// matching drops index hits that do not satisfy the database search rule.
func matching(products []models.Product, query, category string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
