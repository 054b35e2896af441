package repo

import (
	"context"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

type CardRepository interface {
	Add(ctx context.Context, card *domain.TrackedCard) error
	GetByUser(ctx context.Context, username string) ([]domain.TrackedCard, error)
	Update(ctx context.Context, username, cardName string, update domain.TrackedCard) error
	Delete(ctx context.Context, username, cardName string) error
	GetTrackingUsers(ctx context.Context, cardNames []string) (map[string][]string, error)
}
