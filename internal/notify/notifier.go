// Package notify is the boundary to the real-time client transport. The
// actual push layer (websockets to browsers) lives outside this service;
// everything here goes through the Notifier interface.
package notify

import (
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"go.uber.org/zap"
)

// Notifier delivers availability events to a user's connected clients.
type Notifier interface {
	// CheckStarted tells the client a check has been queued for a card so the
	// UI can show a pending state.
	CheckStarted(username, storeSlug, cardName string)
	// AvailabilityData delivers filtered listings for one card at one store.
	AvailabilityData(username, storeSlug, cardName string, items []domain.Listing)
	// CardsUpdated pushes the user's full tracked-card list after a change.
	CardsUpdated(username string, cards []domain.TrackedCard)
}

// LogNotifier writes notifications to the log. It stands in for the real
// push transport in the worker process and in development.
type LogNotifier struct {
	logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) CheckStarted(username, storeSlug, cardName string) {
	n.logger.Infow("availability check started", "username", username, "store", storeSlug, "card", cardName)
}

func (n *LogNotifier) AvailabilityData(username, storeSlug, cardName string, items []domain.Listing) {
	n.logger.Infow("availability data ready", "username", username, "store", storeSlug, "card", cardName, "items", len(items))
}

func (n *LogNotifier) CardsUpdated(username string, cards []domain.TrackedCard) {
	n.logger.Infow("card list updated", "username", username, "cards", len(cards))
}
