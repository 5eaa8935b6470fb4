package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
)

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		SessionID string `json:"sessionId"`
		QrToken   string `json:"qrToken"`
		Code      string `json:"code"`
		Method    string `json:"method"`
		MeetingID string `json:"meetingId"`
		DeviceID  string `json:"deviceId"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.DeviceID == "" {
		req.DeviceID = strings.TrimSpace(r.Header.Get("X-Device-ID"))
	}

	record, err := s.service.Mark(r.Context(), user, attendance.MarkInput{
		SessionID: req.SessionID,
		QrToken:   req.QrToken,
		Code:      req.Code,
		Method:    req.Method,
		MeetingID: req.MeetingID,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		countRedemptionFailure(err)
		writeDomainError(w, err)
		return
	}
	checkinsTotal.WithLabelValues(string(record.Method)).Inc()
	writeJSON(w, http.StatusCreated, mapRecord(record))
}

// handleSyncOffline speaks the offline queue contract: every domain failure
// tells the client whether to drop the queued item instead of retrying.
func (s *Server) handleSyncOffline(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		SessionID   string    `json:"sessionId"`
		QrToken     string    `json:"qrToken"`
		Code        string    `json:"code"`
		Method      string    `json:"method"`
		MeetingID   string    `json:"meetingId"`
		DeviceID    string    `json:"deviceId"`
		CheckInTime time.Time `json:"checkInTime"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	record, err := s.service.SyncOffline(r.Context(), user, attendance.SyncInput{
		SessionID:   req.SessionID,
		Method:      req.Method,
		DeviceID:    req.DeviceID,
		CheckInTime: req.CheckInTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrSyncSessionClosed):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":           "sync_session_closed",
				"message":         attendance.ErrSyncSessionClosed.Message,
				"removeFromQueue": true,
			})
		case errors.Is(err, attendance.ErrSyncAlreadyMarked):
			// The goal state already holds; the client should treat this as
			// success and drop the entry.
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":           "sync_already_marked",
				"message":         attendance.ErrSyncAlreadyMarked.Message,
				"alreadyMarked":   true,
				"removeFromQueue": true,
			})
		default:
			writeDomainError(w, err)
		}
		return
	}
	checkinsTotal.WithLabelValues(string(record.Method)).Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"synced": true,
		"record": mapRecord(record),
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		DeviceID string `json:"deviceId"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := s.service.SignIn(r.Context(), user, req.DeviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	checkinsTotal.WithLabelValues(string(result.Record.Method)).Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"record":  mapRecord(result.Record),
		"session": mapSession(result.Session),
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	result, err := s.service.SignOut(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record":   mapRecord(result.Record),
		"duration": result.Duration,
	})
}

func (s *Server) handleSignInStatus(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	status, err := s.service.CurrentSignIn(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := map[string]interface{}{"signedIn": status.SignedIn}
	if status.Record != nil {
		resp["record"] = mapRecord(status.Record)
	}
	writeJSON(w, http.StatusOK, resp)
}
