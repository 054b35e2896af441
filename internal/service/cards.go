package service

import (
	"context"
	"fmt"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/catalog"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/notify"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/parser"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/repo"
	"go.uber.org/zap"
)

// CardImporter is the optional spreadsheet card-list source.
type CardImporter interface {
	ImportCardList(ctx context.Context, spreadsheetID string) ([]domain.CardRequestSpec, error)
}

type CardService struct {
	cardRepo repo.CardRepository
	catalog  *catalog.Service
	importer CardImporter
	notifier notify.Notifier
	logger   *zap.SugaredLogger
}

func NewCardService(
	cardRepo repo.CardRepository,
	catalogService *catalog.Service,
	importer CardImporter,
	notifier notify.Notifier,
	logger *zap.SugaredLogger,
) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		catalog:  catalogService,
		importer: importer,
		notifier: notifier,
		logger:   logger,
	}
}

// ParseList turns raw card-list text into request specs. Parsing is
// best-effort; lines that fail the grammar are logged and skipped.
func (s *CardService) ParseList(raw string) []domain.CardRequestSpec {
	return parser.ParseCardList(raw, s.logger)
}

// ImportList parses a card list out of a spreadsheet and tracks every entry
// for the user.
func (s *CardService) ImportList(ctx context.Context, username, spreadsheetID string) (int, error) {
	if s.importer == nil {
		return 0, fmt.Errorf("spreadsheet import is not configured")
	}

	specs, err := s.importer.ImportCardList(ctx, spreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("failed to import card list: %w", err)
	}

	added := 0
	for _, spec := range specs {
		if err := s.AddCard(ctx, username, spec); err != nil {
			s.logger.Warnw("failed to add imported card",
				"username", username, "card", spec.CardName, "error", err)
			continue
		}
		added++
	}

	s.logger.Infow("card list imported", "username", username, "added", added, "parsed", len(specs))

	return added, nil
}

// AddCard tracks one card for the user. Names not present in the card-name
// catalog are rejected so typos do not end up on the wish list.
func (s *CardService) AddCard(ctx context.Context, username string, spec domain.CardRequestSpec) error {
	if spec.CardName == "" {
		return fmt.Errorf("card name is required")
	}
	if spec.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	if !s.catalog.IsKnownCard(ctx, spec.CardName) {
		return fmt.Errorf("unknown card name %q", spec.CardName)
	}

	card := &domain.TrackedCard{
		Username: username,
		CardName: spec.CardName,
		Amount:   spec.Amount,
	}
	if spec.SetCode != "" || spec.CollectorID != "" || (spec.Finish != "" && spec.Finish != domain.FinishNormal) {
		card.Specifications = []domain.CardRequestSpec{{
			SetCode:     spec.SetCode,
			CollectorID: spec.CollectorID,
			Finish:      spec.Finish,
		}}
	}

	if err := s.cardRepo.Add(ctx, card); err != nil {
		return fmt.Errorf("failed to track card: %w", err)
	}

	s.logger.Infow("card tracked", "username", username, "card", spec.CardName, "amount", spec.Amount)
	s.sendUpdatedList(ctx, username)

	return nil
}

// UpdateCard changes the amount or specifications of a tracked card.
func (s *CardService) UpdateCard(ctx context.Context, username, cardName string, update domain.TrackedCard) error {
	if err := s.cardRepo.Update(ctx, username, cardName, update); err != nil {
		return fmt.Errorf("failed to update tracked card: %w", err)
	}

	s.logger.Infow("card updated", "username", username, "card", cardName)
	s.sendUpdatedList(ctx, username)

	return nil
}

// DeleteCard removes a card from the user's list.
func (s *CardService) DeleteCard(ctx context.Context, username, cardName string) error {
	if err := s.cardRepo.Delete(ctx, username, cardName); err != nil {
		return fmt.Errorf("failed to delete tracked card: %w", err)
	}

	s.logger.Infow("card deleted", "username", username, "card", cardName)
	s.sendUpdatedList(ctx, username)

	return nil
}

// ListCards returns the user's tracked cards.
func (s *CardService) ListCards(ctx context.Context, username string) ([]domain.TrackedCard, error) {
	cards, err := s.cardRepo.GetByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load card list: %w", err)
	}

	return cards, nil
}

// SearchCardNames serves autocomplete queries from the catalog.
func (s *CardService) SearchCardNames(ctx context.Context, query string, limit int) []string {
	return s.catalog.Search(ctx, query, limit)
}

// sendUpdatedList pushes the full refreshed list to the user's clients, the
// single source of truth for the frontend table.
func (s *CardService) sendUpdatedList(ctx context.Context, username string) {
	cards, err := s.cardRepo.GetByUser(ctx, username)
	if err != nil {
		s.logger.Errorw("failed to load card list for notification", "username", username, "error", err)
		return
	}

	s.notifier.CardsUpdated(username, cards)
}
