package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/validate"
)

type ItemStore interface {
	GetActiveItems(ctx context.Context) ([]models.Item, error)
	GetAllItems(ctx context.Context) ([]models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type CreateItemInput struct {
	Name        string  `json:"name" validate:"min=2"`
	Description *string `json:"description"`
	PriceCents  int     `json:"priceCents" validate:"min=1"`
	IsActive    *bool   `json:"isActive"`
}

type UpdateItemInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"priceCents" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"isActive"`
}

type CatalogService struct {
	items ItemStore
	now   func() time.Time
}

func NewCatalogService(items ItemStore) *CatalogService {
	return &CatalogService{items: items, now: time.Now}
}

// PublicItems lists active items, newest first, without private fields.
func (s *CatalogService) PublicItems(ctx context.Context) ([]models.PublicItem, error) {
	items, err := s.items.GetActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	out := make([]models.PublicItem, 0, len(items))
	for _, i := range items {
		out = append(out, i.Public())
	}
	return out, nil
}

func (s *CatalogService) AllItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	item, err := s.items.UpdateItem(ctx, id, models.ItemPatch{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}
