package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// Indexer mirrors products into a full-text search engine.
type Indexer interface {
	IndexProduct(ctx context.Context, id string, doc any) error
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []json.RawMessage, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  Indexer
	Events events.Publisher
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, cmd CategoryCommand) (*models.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if _, err := s.Repo.CategoryByName(ctx, name); err == nil {
		return nil, fail(ErrConflict, "Category already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &models.Category{Name: name, Description: strings.TrimSpace(cmd.Description)}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fail(ErrConflict, "Category already exists")
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, cmd CategoryCommand) (*models.Category, error) {
	c, err := s.Repo.CategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Category not found")
		}
		return nil, err
	}

	name := strings.TrimSpace(cmd.Name)
	if other, err := s.Repo.CategoryByName(ctx, name); err == nil && other.ID != id {
		return nil, fail(ErrConflict, "Category already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c.Name = name
	c.Description = strings.TrimSpace(cmd.Description)
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Repo.CategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrNotFound, "Category not found")
		}
		return err
	}
	return nil
}

func applyProduct(p *models.Product, cmd ProductCommand) error {
	if cmd.Price.IsNegative() {
		return fail(ErrValidation, "Price cannot be negative")
	}
	if cmd.Stock < 0 {
		return fail(ErrValidation, "Stock cannot be negative")
	}
	if cmd.Discount < 0 || cmd.Discount > 100 {
		return fail(ErrValidation, "Discount must be between 0 and 100")
	}

	p.Name = strings.TrimSpace(cmd.Name)
	p.Brand = strings.TrimSpace(cmd.Brand)
	p.Description = cmd.Description
	p.AboutItem = nonNil(cmd.AboutItem)
	p.Price = cmd.Price.Round(2)
	p.CategoryID = cmd.CategoryID
	p.Stock = cmd.Stock
	p.Discount = cmd.Discount
	p.Images = nonNil(cmd.Images)
	p.Banner = cmd.Banner
	p.IsActive = cmd.IsActive
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *CatalogService) CreateProduct(ctx context.Context, cmd ProductCommand) (*models.Product, error) {
	var p models.Product
	if err := applyProduct(&p, cmd); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_created", &p)
	return &p, nil
}

// UpdateProduct replaces every editable field; rating columns stay owned by feedback.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, cmd ProductCommand) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(p, cmd); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	if p, err = s.Repo.ProductByID(ctx, id); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_updated", p)
	return p, nil
}

// afterWrite mirrors a committed product into the search index and the event stream.
// Inactive products are dropped from the index. Neither step may fail the request.
func (s *CatalogService) afterWrite(ctx context.Context, eventType string, p *models.Product) {
	l := logging.FromContext(ctx).With("svc", "catalog")
	if s.Index != nil {
		if p.IsActive {
			if err := s.Index.IndexProduct(ctx, p.ID.String(), p); err != nil {
				l.Error("index_product_failed", "product_id", p.ID, "error", err)
			}
		} else if err := s.Index.DeleteProduct(ctx, p.ID.String()); err != nil {
			l.Error("unindex_product_failed", "product_id", p.ID, "error", err)
		}
	}
	events.Publish(ctx, s.Events, events.TopicProduct, p.ID.String(), events.New(eventType, map[string]any{
		"product_id": p.ID.String(),
		"name":       p.Name,
		"price":      p.Price.StringFixed(2),
		"is_active":  p.IsActive,
	}))
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Products(ctx context.Context, page, limit int) ([]models.Product, util.Meta, error) {
	return s.list(ctx, repo.ProductFilter{}, page, limit)
}

func (s *CatalogService) FilterProducts(ctx context.Context, q ProductQuery, page, limit int) ([]models.Product, util.Meta, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, util.Meta{}, fail(ErrValidation, "minPrice cannot be greater than maxPrice")
	}
	return s.list(ctx, repo.ProductFilter{
		CategoryID: q.CategoryID,
		Brand:      strings.TrimSpace(q.Brand),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		MinStars:   q.MinStars,
	}, page, limit)
}

func (s *CatalogService) list(ctx context.Context, f repo.ProductFilter, page, limit int) ([]models.Product, util.Meta, error) {
	offset, limit := util.Calculate(page, limit)
	items, total, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, util.Meta{}, err
	}
	return items, util.NewMeta(page, limit, total), nil
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.Repo.Brands(ctx)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []string{}
	}
	return brands, nil
}

// Search asks the search engine first and falls back to a LIKE scan of active products when
// it is not configured or not answering.
func (s *CatalogService) Search(ctx context.Context, query string, page, limit int) ([]models.Product, util.Meta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, util.Meta{}, fail(ErrValidation, "Search query is required")
	}
	offset, limit := util.Calculate(page, limit)

	if s.Index != nil {
		total, docs, err := s.Index.SearchProducts(ctx, query, offset, limit)
		if err == nil {
			items := make([]models.Product, 0, len(docs))
			for _, d := range docs {
				var p models.Product
				if err := json.Unmarshal(d, &p); err != nil {
					return nil, util.Meta{}, err
				}
				items = append(items, p)
			}
			return items, util.NewMeta(page, limit, total), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "svc", "catalog.search", "reason", "falling back to database", "error", err)
	}

	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Text: query, ActiveOnly: true}, offset, limit)
	if err != nil {
		return nil, util.Meta{}, err
	}
	return items, util.NewMeta(page, limit, total), nil
}
