package main

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

type CheckAvailabilityRequest struct {
	Username    string        `json:"username" validate:"required"`
	StoreSlug   string        `json:"store_slug" validate:"required"`
	Amount      int           `json:"amount" validate:"required,gt=0"`
	CardName    string        `json:"card_name" validate:"required"`
	SetCode     string        `json:"set_code"`
	CollectorID string        `json:"collector_id"`
	Finish      domain.Finish `json:"finish"`
}

// checkAvailabilityHandler godoc
//
//	@Summary		Check one card's availability
//	@Description	Dispatches an availability check for one card at one store. Fresh cached listings are delivered without dispatching.
//	@Tags			availability
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CheckAvailabilityRequest	true	"Check request"
//	@Success		202		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Router			/availability/check [post]
func (app *application) checkAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckAvailabilityRequest
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

	requestID, err := app.coordinator.RequestCheck(r.Context(), req.Username, req.StoreSlug, spec)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// an empty request ID means the cache answered and nothing was dispatched
	if requestID == "" {
		response := map[string]string{
			"status": "served_from_cache",
		}
		if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	response := map[string]string{
		"request_id": requestID,
		"status":     "dispatched",
	}

	if err := app.jsonRespone(w, http.StatusAccepted, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// checkUserCardsHandler godoc
//
//	@Summary		Check a user's whole wish list
//	@Description	Fans an availability check out across every tracked card at every store the user selected
//	@Tags			availability
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		202			{object}	map[string]int
//	@Failure		500			{object}	map[string]string
//	@Router			/users/{username}/availability [post]
func (app *application) checkUserCardsHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	dispatched, err := app.coordinator.CheckUserCards(r.Context(), username)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]int{
		"dispatched": dispatched,
	}

	if err := app.jsonRespone(w, http.StatusAccepted, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
