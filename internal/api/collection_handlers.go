package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/millukiapp/milluki-server/internal/http/response"
	"github.com/millukiapp/milluki-server/internal/service"
)

// AttachBookRequest is the body for adding a book to a collection.
type AttachBookRequest struct {
	BookID string `json:"book_id"`
}

// handleCreateCollection creates a new collection owned by the requester.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateCollectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	coll, err := s.collectionService.Create(ctx, getEmail(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, coll, s.logger)
}

// handleListCollections returns the requester's own collections.
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	colls, err := s.collectionService.ListForOwner(ctx, getEmail(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, colls, s.logger)
}

// handleGetCollection returns a single collection if visible to the requester.
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coll, err := s.collectionService.Get(ctx, getEmail(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, coll, s.logger)
}

// handleUpdateCollection renames a collection or flips its visibility.
func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.UpdateCollectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	coll, err := s.collectionService.Update(ctx, getEmail(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, coll, s.logger)
}

// handleAttachBook embeds a book snapshot into the collection.
func (s *Server) handleAttachBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AttachBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if req.BookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	coll, err := s.collectionService.AttachBook(ctx, getEmail(ctx), chi.URLParam(r, "id"), req.BookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, coll, s.logger)
}

// handleDetachBook removes a book snapshot from the collection.
func (s *Server) handleDetachBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coll, err := s.collectionService.DetachBook(ctx, getEmail(ctx),
		chi.URLParam(r, "id"), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, coll, s.logger)
}

// handleDeleteCollection removes a collection and echoes its last state.
func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coll, err := s.collectionService.Delete(ctx, getEmail(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, coll, s.logger)
}
