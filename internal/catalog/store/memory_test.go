package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	identitymodels "catalog/internal/identity/models"
	identitystore "catalog/internal/identity/store"
	"catalog/pkg/platform/sentinel"
)

type ProductStoreSuite struct {
	suite.Suite
	store *InMemory
	users *identitystore.InMemory
	ctx   context.Context
}

func (s *ProductStoreSuite) SetupTest() {
	s.users = identitystore.NewInMemory()
	s.store = NewInMemory(s.users)
	s.ctx = context.Background()

	s.Require().NoError(s.users.Create(s.ctx, &identitymodels.User{
		ID:     "owner-a",
		Name:   "Ana",
		Phone:  "5511111111",
		Status: identitymodels.UserStatusActive,
	}))
}

func TestProductStoreSuite(t *testing.T) {
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) newProduct(id, sku, name string) *models.Product {
	return &models.Product{
		ID:           id,
		SKU:          sku,
		Name:         name,
		Type:         "Hardware",
		Price:        10,
		RegistryDate: "2023-02-02",
		OwnerID:      "owner-a",
		Status:       models.StatusActive,
	}
}

func (s *ProductStoreSuite) TestCreateAndFindOne() {
	s.Run("finds created product with owner projection", func() {
		p := s.newProduct("", "A1", "Widget")
		s.Require().NoError(s.store.Create(s.ctx, p))
		s.NotEmpty(p.ID)

		found, err := s.store.FindOne(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Widget", found.Name)
		s.Require().NotNil(found.Owner)
		s.Equal("Ana", found.Owner.Name)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindOne(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ProductStoreSuite) TestConditionalUpdate() {
	s.Run("updates row matching full predicate", func() {
		p := s.newProduct("p-upd", "A1", "Widget")
		s.Require().NoError(s.store.Create(s.ctx, p))

		name := "Improved Widget"
		affected, err := s.store.ConditionalUpdate(s.ctx, Predicate{ID: "p-upd", OwnerID: "owner-a"}, Patch{Name: &name})
		s.Require().NoError(err)
		s.EqualValues(1, affected)

		found, err := s.store.FindOne(s.ctx, "p-upd")
		s.Require().NoError(err)
		s.Equal("Improved Widget", found.Name)
	})

	s.Run("zero rows for non-owner", func() {
		p := s.newProduct("p-owned", "A1", "Widget")
		s.Require().NoError(s.store.Create(s.ctx, p))

		name := "Hijacked"
		affected, err := s.store.ConditionalUpdate(s.ctx, Predicate{ID: "p-owned", OwnerID: "owner-b"}, Patch{Name: &name})
		s.Require().NoError(err)
		s.Zero(affected)

		found, err := s.store.FindOne(s.ctx, "p-owned")
		s.Require().NoError(err)
		s.Equal("Widget", found.Name)
	})

	s.Run("soft delete is terminal", func() {
		p := s.newProduct("p-del", "A1", "Widget")
		s.Require().NoError(s.store.Create(s.ctx, p))

		affected, err := s.store.ConditionalUpdate(s.ctx, Predicate{ID: "p-del", OwnerID: "owner-a"}, Patch{Delete: true})
		s.Require().NoError(err)
		s.EqualValues(1, affected)

		// second delete observes zero rows
		affected, err = s.store.ConditionalUpdate(s.ctx, Predicate{ID: "p-del", OwnerID: "owner-a"}, Patch{Delete: true})
		s.Require().NoError(err)
		s.Zero(affected)

		_, err = s.store.FindOne(s.ctx, "p-del")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ProductStoreSuite) TestFindMany() {
	s.Run("search matches substring case-insensitively", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newProduct("s1", "A1", "Widget")))
		s.Require().NoError(s.store.Create(s.ctx, s.newProduct("s2", "B2", "Gadget")))

		result, err := s.store.FindMany(s.ctx, query.Spec{
			Mode:       query.ModeSearch,
			FilterTerm: "wid",
			Page:       1,
			Limit:      query.DefaultLimit,
		})
		s.Require().NoError(err)
		s.Equal(1, result.Count)
		s.Require().Len(result.Rows, 1)
		s.Equal("Widget", result.Rows[0].Name)
	})

	s.Run("sorts by price descending", func() {
		store := NewInMemory(s.users)
		for i, price := range []float64{5, 20, 10} {
			p := s.newProduct(fmt.Sprintf("sort-%d", i), "A1", "Widget")
			p.Price = price
			s.Require().NoError(store.Create(s.ctx, p))
		}

		result, err := store.FindMany(s.ctx, query.Spec{
			Mode:          query.ModeOrder,
			SortField:     "price",
			SortDirection: query.Descending,
			Page:          1,
			Limit:         query.DefaultLimit,
		})
		s.Require().NoError(err)
		s.Require().Len(result.Rows, 3)
		s.Equal(float64(20), result.Rows[0].Price)
		s.Equal(float64(10), result.Rows[1].Price)
		s.Equal(float64(5), result.Rows[2].Price)
	})

	s.Run("paginates by id ascending", func() {
		store := NewInMemory(s.users)
		for i := 1; i <= 5; i++ {
			s.Require().NoError(store.Create(s.ctx, s.newProduct(fmt.Sprintf("p%d", i), "A1", "Widget")))
		}

		result, err := store.FindMany(s.ctx, query.Spec{
			Mode:          query.ModeNormal,
			SortDirection: query.Ascending,
			Page:          2,
			Limit:         2,
		})
		s.Require().NoError(err)
		s.Equal(5, result.Count)
		s.Require().Len(result.Rows, 2)
		s.Equal("p3", result.Rows[0].ID)
		s.Equal("p4", result.Rows[1].ID)
	})

	s.Run("count ignores pagination", func() {
		store := NewInMemory(s.users)
		for i := 1; i <= 5; i++ {
			s.Require().NoError(store.Create(s.ctx, s.newProduct(fmt.Sprintf("c%d", i), "A1", "Widget")))
		}

		result, err := store.FindMany(s.ctx, query.Spec{Page: 1, Limit: 2})
		s.Require().NoError(err)
		s.Equal(5, result.Count)
		s.Len(result.Rows, 2)
	})

	s.Run("deleted products never listed", func() {
		store := NewInMemory(s.users)
		s.Require().NoError(store.Create(s.ctx, s.newProduct("v1", "A1", "Widget")))
		s.Require().NoError(store.Create(s.ctx, s.newProduct("v2", "B2", "Gadget")))

		_, err := store.ConditionalUpdate(s.ctx, Predicate{ID: "v1", OwnerID: "owner-a"}, Patch{Delete: true})
		s.Require().NoError(err)

		result, err := store.FindMany(s.ctx, query.Spec{
			Mode:       query.ModeSearch,
			FilterTerm: "widget",
			Page:       1,
			Limit:      query.DefaultLimit,
		})
		s.Require().NoError(err)
		s.Zero(result.Count)
		s.Empty(result.Rows)
	})
}
