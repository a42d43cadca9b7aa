package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	identity "catalog/internal/identity/models"
	"catalog/pkg/platform/sentinel"
)

// OwnerLookup resolves the owning user for the read-path projection.
type OwnerLookup interface {
	FindByID(ctx context.Context, id string) (*identity.User, error)
}

// InMemory keeps products in a map guarded by a mutex. The mutex makes
// ConditionalUpdate atomic, matching the guarantee the postgres adapter gets
// from a predicate-scoped UPDATE.
type InMemory struct {
	mu       sync.RWMutex
	products map[string]models.Product
	owners   OwnerLookup
}

func NewInMemory(owners OwnerLookup) *InMemory {
	return &InMemory{
		products: make(map[string]models.Product),
		owners:   owners,
	}
}

func (s *InMemory) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = *product
	return nil
}

func (s *InMemory) FindOne(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	p, ok := s.products[id]
	s.mu.RUnlock()
	if !ok || p.IsDeleted != nil {
		return nil, sentinel.ErrNotFound
	}
	s.project(ctx, &p)
	return &p, nil
}

func (s *InMemory) FindMany(ctx context.Context, spec query.Spec) (*models.ListResult, error) {
	s.mu.RLock()
	visible := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsDeleted != nil {
			continue
		}
		if spec.FilterTerm != "" && !matches(&p, spec.FilterTerm) {
			continue
		}
		visible = append(visible, p)
	}
	s.mu.RUnlock()

	sortProducts(visible, spec)

	count := len(visible)
	start := spec.Offset()
	if start > count {
		start = count
	}
	end := start + spec.Limit
	if end > count {
		end = count
	}

	rows := make([]*models.Product, 0, end-start)
	for i := start; i < end; i++ {
		p := visible[i]
		s.project(ctx, &p)
		rows = append(rows, &p)
	}
	return &models.ListResult{Count: count, Rows: rows}, nil
}

func (s *InMemory) ConditionalUpdate(_ context.Context, pred Predicate, patch Patch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[pred.ID]
	if !ok || p.OwnerID != pred.OwnerID || p.IsDeleted != nil {
		return 0, nil
	}

	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.RegistryDate != nil {
		p.RegistryDate = *patch.RegistryDate
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Delete {
		deleted := true
		p.IsDeleted = &deleted
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[pred.ID] = p
	return 1, nil
}

// project attaches the owner's public fields. A missing owner leaves the
// projection empty rather than failing the read.
func (s *InMemory) project(ctx context.Context, p *models.Product) {
	if s.owners == nil {
		return
	}
	owner, err := s.owners.FindByID(ctx, p.OwnerID)
	if err != nil {
		return
	}
	public := owner.Public()
	p.Owner = &public
}

func matches(p *models.Product, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.Name, p.SKU, p.Type, string(p.Status)} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, spec query.Spec) {
	field := spec.SortField
	if field == "" {
		field = "id"
	}
	less := func(a, b *models.Product) bool {
		switch field {
		case "sku":
			return a.SKU < b.SKU
		case "productName":
			return a.Name < b.Name
		case "productType":
			return a.Type < b.Type
		case "productStatus":
			return a.Status < b.Status
		case "price":
			return a.Price < b.Price
		case "registryDate":
			return a.RegistryDate < b.RegistryDate
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		if spec.SortDirection == query.Descending {
			return less(&products[j], &products[i])
		}
		return less(&products[i], &products[j])
	})
}
