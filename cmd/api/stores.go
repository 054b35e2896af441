package main

import (
	"net/http"

	"github.com/go-chi/chi"
)

// listStoresHandler godoc
//
//	@Summary		List registered stores
//	@Tags			stores
//	@Produce		json
//	@Success		200	{array}		domain.Store
//	@Failure		500	{object}	map[string]string
//	@Router			/stores [get]
func (app *application) listStoresHandler(w http.ResponseWriter, r *http.Request) {
	stores, err := app.storeRepo.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, stores); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getUserStoresHandler godoc
//
//	@Summary		List a user's selected stores
//	@Tags			stores
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		200			{array}		domain.Store
//	@Failure		500			{object}	map[string]string
//	@Router			/users/{username}/stores [get]
func (app *application) getUserStoresHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	stores, err := app.storeRepo.GetUserStores(r.Context(), username)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, stores); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetUserStoresRequest struct {
	Slugs []string `json:"slugs" validate:"required"`
}

// setUserStoresHandler godoc
//
//	@Summary		Replace a user's store selection
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Param			request		body		SetUserStoresRequest	true	"Store slugs"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	map[string]string
//	@Router			/users/{username}/stores [put]
func (app *application) setUserStoresHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		app.badRequestResponse(w, r, ErrMissingUsername)
		return
	}

	var req SetUserStoresRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.storeRepo.SetUserStores(r.Context(), username, req.Slugs); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{
		"username": username,
		"status":   "updated",
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
