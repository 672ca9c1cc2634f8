package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/millukiapp/milluki-server/internal/http/response"
	"github.com/millukiapp/milluki-server/internal/service"
)

// handleRegister creates a new user account. The fresh token is delivered
// via the x-auth-token response header.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Register(ctx, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set(TokenHeader, resp.Token)
	response.Created(w, resp.User, s.logger)
}

// handleLogin verifies credentials and returns a fresh token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Login(ctx, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set(TokenHeader, resp.Token)
	response.Success(w, map[string]any{
		"token": resp.Token,
		"user":  resp.User,
	}, s.logger)
}

// handleGetCurrentUser returns the authenticated user.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.authService.GetUser(ctx, getIdentityID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
