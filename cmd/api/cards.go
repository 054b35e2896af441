package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

type ParseCardListRequest struct {
	CardList string `json:"card_list" validate:"required"`
}

// parseCardListHandler godoc
//
//	@Summary		Parse a card list
//	@Description	Parses raw card-list text into structured card requests. Malformed lines are skipped.
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseCardListRequest	true	"Card list text"
//	@Success		200		{array}		domain.CardRequestSpec
//	@Failure		400		{object}	map[string]string
//	@Router			/cards/parse [post]
func (app *application) parseCardListHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseCardListRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	specs := app.cardService.ParseList(req.CardList)

	if err := app.jsonRespone(w, http.StatusOK, specs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// searchCardNamesHandler godoc
//
//	@Summary		Search card names
//	@Description	Case-insensitive substring search over the card-name catalog
//	@Tags			cards
//	@Produce		json
//	@Param			q		query		string	true	"Search term"
//	@Param			limit	query		int		false	"Maximum results (default 20)"
//	@Success		200		{array}		string
//	@Router			/cards/search [get]
func (app *application) searchCardNamesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			app.badRequestResponse(w, r, ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	names := app.cardService.SearchCardNames(r.Context(), query, limit)

	if err := app.jsonRespone(w, http.StatusOK, names); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCardsHandler godoc
//
//	@Summary		List tracked cards
//	@Description	Returns the user's wish list
//	@Tags			cards
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		200			{array}		domain.TrackedCard
//	@Failure		500			{object}	map[string]string
//	@Router			/users/{username}/cards [get]
func (app *application) listCardsHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	cards, err := app.cardService.ListCards(r.Context(), username)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, cards); err != nil {
		app.internalServerError(w, r, err)
	}
}

type AddCardRequest struct {
	Amount      int           `json:"amount" validate:"required,gt=0"`
	CardName    string        `json:"card_name" validate:"required"`
	SetCode     string        `json:"set_code"`
	CollectorID string        `json:"collector_id"`
	Finish      domain.Finish `json:"finish"`
}

// addCardHandler godoc
//
//	@Summary		Track a card
//	@Description	Adds a card to the user's wish list. Names not present in the card-name catalog are rejected.
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string			true	"Username"
//	@Param			request		body		AddCardRequest	true	"Card to track"
//	@Success		201			{object}	map[string]string
//	@Failure		400			{object}	map[string]string
//	@Router			/users/{username}/cards [post]
func (app *application) addCardHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	var req AddCardRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	spec := domain.CardRequestSpec{
		Amount:      req.Amount,
		CardName:    req.CardName,
		SetCode:     req.SetCode,
		CollectorID: req.CollectorID,
		Finish:      req.Finish,
	}

	if err := app.cardService.AddCard(r.Context(), username, spec); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	response := map[string]string{
		"card_name": req.CardName,
		"status":    "tracked",
	}

	if err := app.jsonRespone(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCardRequest struct {
	Amount         int                      `json:"amount" validate:"required,gt=0"`
	Specifications []domain.CardRequestSpec `json:"specifications"`
}

// updateCardHandler godoc
//
//	@Summary		Update a tracked card
//	@Description	Changes the amount or printing specifications of a tracked card
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string				true	"Username"
//	@Param			card_name	path		string				true	"Card name"
//	@Param			request		body		UpdateCardRequest	true	"New values"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	map[string]string
//	@Router			/users/{username}/cards/{card_name} [patch]
func (app *application) updateCardHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	cardName := chi.URLParam(r, "card_name")
	if cardName == "" {
		app.badRequestResponse(w, r, ErrMissingCardName)
		return
	}

	var req UpdateCardRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update := domain.TrackedCard{
		Amount:         req.Amount,
		Specifications: req.Specifications,
	}

	if err := app.cardService.UpdateCard(r.Context(), username, cardName, update); err != nil {
		app.notFoundError(w, r, err)
		return
	}

	response := map[string]string{
		"card_name": cardName,
		"status":    "updated",
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCardHandler godoc
//
//	@Summary		Stop tracking a card
//	@Tags			cards
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Param			card_name	path		string	true	"Card name"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/users/{username}/cards/{card_name} [delete]
func (app *application) deleteCardHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	cardName := chi.URLParam(r, "card_name")
	if cardName == "" {
		app.badRequestResponse(w, r, ErrMissingCardName)
		return
	}

	if err := app.cardService.DeleteCard(r.Context(), username, cardName); err != nil {
		app.notFoundError(w, r, err)
		return
	}

	response := map[string]string{
		"card_name": cardName,
		"status":    "deleted",
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ImportCardListRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
}

// importCardListHandler godoc
//
//	@Summary		Import a card list from Google Sheets
//	@Description	Reads a spreadsheet card list and tracks every entry for the user
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Param			request		body		ImportCardListRequest	true	"Spreadsheet to import"
//	@Success		200			{object}	map[string]int
//	@Failure		400			{object}	map[string]string
//	@Router			/users/{username}/cards/import [post]
func (app *application) importCardListHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	var req ImportCardListRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	added, err := app.cardService.ImportList(r.Context(), username, req.SpreadsheetID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]int{
		"added": added,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
