package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		Title    string `json:"title"`
		CourseID string `json:"courseId"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Title == "" {
		req.Title = "Attendance Session"
	}

	session, err := s.service.StartSession(r.Context(), user, attendance.StartSessionInput{
		Title:    req.Title,
		CourseID: req.CourseID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionId")

	session, err := s.service.StopSession(r.Context(), model.ScopeFor(user), user, sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSession(session))
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.service.ActiveSession(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": mapSession(session)})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	filter := db.SessionFilter{
		Scope:  model.ScopeFor(user),
		Limit:  parseLimit(r, 20),
		Offset: parseOffset(r),
	}
	if user.Role == model.RoleLecturer {
		filter.CreatedBy = user.ID
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		switch model.SessionStatus(raw) {
		case model.SessionActive, model.SessionStopped:
			filter.Status = model.SessionStatus(raw)
		default:
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
	}

	sessions, total, err := s.store.ListSessions(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, mapSession(&sessions[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": resp,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
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

	records, err := s.store.ListRecordsBySession(r.Context(), session.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordsResp := make([]recordResponse, 0, len(records))
	for i := range records {
		recordsResp = append(recordsResp, mapRecord(&records[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": mapSession(&session),
		"records": recordsResp,
	})
}

func (s *Server) handleMyAttendance(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit := parseLimit(r, 20)
	offset := parseOffset(r)

	records, total, err := s.store.ListRecordsForUser(r.Context(), user.CompanyID, user.ID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]recordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, mapRecord(&records[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": resp,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
