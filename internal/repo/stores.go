package repo

import (
	"context"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

type StoreRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	GetUserStores(ctx context.Context, username string) ([]domain.Store, error)
	SetUserStores(ctx context.Context, username string, slugs []string) error
}
