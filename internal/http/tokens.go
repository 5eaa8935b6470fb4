package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

func (s *Server) handleGenerateToken(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		SessionID     string `json:"sessionId"`
		ExpiryMinutes int    `json:"expiryMinutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "missing_session_id")
		return
	}

	token, err := s.service.IssueToken(r.Context(), model.ScopeFor(user), user, req.SessionID,
		time.Duration(req.ExpiryMinutes)*time.Minute)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	tokensIssuedTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"code":      token.Code,
		"token":     token.Token,
		"expiresAt": token.ExpiresAt,
	})
}

func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token     string `json:"token"`
		Code      string `json:"code"`
		SessionID string `json:"sessionId"`
		// Consumed by the device middleware; accepted here so the strict
		// decoder does not reject it.
		DeviceID string `json:"deviceId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Token == "" && req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_credential")
		return
	}

	token, err := s.service.ValidateToken(r.Context(), req.Token, req.Code, req.SessionID)
	if err != nil {
		countRedemptionFailure(err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     true,
		"sessionId": token.SessionID,
		"code":      token.Code,
		"expiresAt": token.ExpiresAt,
	})
}

func (s *Server) handleListSessionTokens(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionId")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeDomainError(w, attendance.ErrSessionNotFound)
		return
	}

	creatorID := ""
	if user.Role == model.RoleLecturer {
		creatorID = user.ID
	}
	session, err := s.store.GetSession(r.Context(), model.ScopeFor(user), sessionID, creatorID)
	if err != nil {
		if db.IsNotFound(err) {
			writeDomainError(w, attendance.ErrSessionNotFound)
			return
		}
		writeDomainError(w, err)
		return
	}

	tokens, err := s.store.ListTokensBySession(r.Context(), session.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]tokenResponse, 0, len(tokens))
	for i := range tokens {
		resp = append(resp, mapToken(&tokens[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": session.ID,
		"tokens":    resp,
	})
}
