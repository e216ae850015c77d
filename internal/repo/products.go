package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// with LIKE wildcards in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *GormRepo) GetProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	products := make([]models.Product, 0)
	db, ok := r.conn(ctx, "get_products")
	if !ok {
		return products, nil
	}
	if err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, fail(ctx, "get_products", err)
	}
	return products, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	db, ok := r.conn(ctx, "count_products")
	if !ok {
		return 0, nil
	}
	var n int64
	if err := db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fail(ctx, "count_products", err)
	}
	return n, nil
}

func (r *GormRepo) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	db, ok := r.conn(ctx, "get_product_by_id")
	if !ok {
		return nil, ErrNotFound
	}
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		return nil, fail(ctx, "get_product_by_id", err)
	}
	return &p, nil
}

// SearchProducts matches query case-insensitively against name or
// description and, when category is set, requires an exact category.
// A limit of zero returns every match.
func (r *GormRepo) SearchProducts(ctx context.Context, query, category string, limit int) ([]models.Product, error) {
	products := make([]models.Product, 0)
	db, ok := r.conn(ctx, "search_products")
	if !ok {
		return products, nil
	}

	q := db.Model(&models.Product{})
	if query = strings.TrimSpace(query); query != "" {
		p := containsPattern(query)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, p, p)
	}
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fail(ctx, "search_products", err)
	}
	return products, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	db, ok := r.conn(ctx, "create_product")
	if !ok {
		return ErrUnavailable
	}
	if err := db.Create(p).Error; err != nil {
		return fail(ctx, "create_product", err)
	}
	return nil
}
