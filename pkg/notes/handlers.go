// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notes

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/validation"
	domain "github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type NoteResponse struct {
	Note *domain.Note `json:"note"`
}

type NotesResponse struct {
	Notes []*domain.Note `json:"notes"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// RegisterEndpoints mounts the note routes. The caller is expected to have
// the authentication middleware applied on r.
func (a *API) RegisterEndpoints(r chi.Router) {
	r.Get("/notes", a.listNotes)
	r.Post("/notes", a.createNote)
	r.Get("/notes/{id}", a.getNote)
	r.Put("/notes/{id}", a.updateNote)
	r.Delete("/notes/{id}", a.deleteNote)
}

func (a *API) listNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notes.API.listNotes")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	ns, err := a.service.ListNotes(ctx, principal)
	if err != nil {
		a.logger.Errorf("failed to list notes: %v", err)
		a.writeError(w, err)
		return
	}
	if ns == nil {
		ns = []*domain.Note{}
	}

	a.writeJSON(w, http.StatusOK, NotesResponse{Notes: ns})
}

func (a *API) createNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notes.API.createNote")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Title and content are required"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Title and content are required"))
		return
	}

	note, err := a.service.CreateNote(ctx, principal, req.Title, req.Content)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, NoteResponse{Note: note})
}

func (a *API) getNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notes.API.getNote")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	note, err := a.service.GetNote(ctx, principal, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, NoteResponse{Note: note})
}

func (a *API) updateNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notes.API.updateNote")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Invalid request body"))
		return
	}

	note, err := a.service.UpdateNote(ctx, principal, chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, NoteResponse{Note: note})
}

func (a *API) deleteNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notes.API.deleteNote")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	if err := a.service.DeleteNote(ctx, principal, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, DeleteResponse{Message: "Note deleted successfully"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	if err := types.WriteJSON(w, status, v); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	if werr := types.WriteError(w, err); werr != nil {
		a.logger.Errorf("failed to encode error response: %v", werr)
	}
}
