package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/config"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type Server struct {
	cfg     config.Config
	store   *db.Store
	service *attendance.Service
	redis   *redis.Client
}

func NewServer(cfg config.Config, store *db.Store, service *attendance.Service, redisClient *redis.Client) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		service: service,
		redis:   redisClient,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	staff := []model.Role{model.RoleLecturer, model.RoleManager, model.RoleAdmin, model.RoleSuperadmin}

	r.Route("/attendance-sessions", func(r chi.Router) {
		r.Use(s.authenticate)

		r.With(s.requireRole(staff...), s.subscriptionGate).Post("/start", s.handleStartSession)
		r.With(s.requireRole(staff...), s.subscriptionGate).Post("/{sessionId}/stop", s.handleStopSession)
		r.Get("/active", s.handleActiveSession)
		r.With(s.subscriptionGate, s.logoutCooldown).Post("/mark", s.handleMark)
		r.With(s.subscriptionGate, s.logoutCooldown).Post("/sync-offline", s.handleSyncOffline)
		r.With(s.requireRole(model.RoleEmployee), s.subscriptionGate).Post("/sign-in", s.handleSignIn)
		r.With(s.requireRole(model.RoleEmployee), s.subscriptionGate).Post("/sign-out", s.handleSignOut)
		r.With(s.requireRole(model.RoleEmployee)).Get("/sign-in-status", s.handleSignInStatus)
		r.Get("/my-attendance", s.handleMyAttendance)
		r.With(s.requireRole(staff...)).Get("/", s.handleListSessions)
		r.With(s.requireRole(staff...)).Get("/{sessionId}", s.handleGetSession)
	})

	r.Route("/qr-tokens", func(r chi.Router) {
		r.Use(s.authenticate)

		r.With(s.requireRole(model.RoleManager, model.RoleLecturer, model.RoleSuperadmin), s.subscriptionGate).Post("/generate", s.handleGenerateToken)
		r.With(s.deviceCooldown).Post("/validate", s.handleValidateToken)
		r.With(s.requireRole(staff...)).Get("/session/{sessionId}", s.handleListSessionTokens)
	})

	return r
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// decodeOptionalJSON tolerates an empty body for endpoints whose request
// fields are all optional.
func decodeOptionalJSON(r *http.Request, out interface{}) error {
	err := decodeJSON(r, out)
	if err == io.EOF {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeDomainError maps the attendance error taxonomy to HTTP. Anything
// outside the taxonomy is logged and hidden behind a generic server error.
func writeDomainError(w http.ResponseWriter, err error) {
	domainErr, ok := attendance.AsError(err)
	if !ok {
		log.Printf("http: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, statusForKind(domainErr.Kind), map[string]string{
		"error":   domainErr.Code,
		"message": domainErr.Message,
	})
}

func statusForKind(kind attendance.Kind) int {
	switch kind {
	case attendance.KindInvalid:
		return http.StatusBadRequest
	case attendance.KindNotFound:
		return http.StatusNotFound
	case attendance.KindConflict:
		return http.StatusConflict
	case attendance.KindForbidden:
		return http.StatusForbidden
	case attendance.KindExpired, attendance.KindAlreadyUsed:
		return http.StatusGone
	case attendance.KindExhausted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func readBodyBytes(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func parseLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			return parsed
		}
	}
	return fallback
}

func parseOffset(r *http.Request) int {
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 0
}

// Wire models (camelCase, stable field set regardless of internal changes)

type sessionResponse struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"companyId"`
	CreatedBy string     `json:"createdBy"`
	Title     string     `json:"title"`
	CourseID  *string    `json:"courseId,omitempty"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	StoppedAt *time.Time `json:"stoppedAt,omitempty"`
	StoppedBy *string    `json:"stoppedBy,omitempty"`
}

func mapSession(session *model.Session) sessionResponse {
	return sessionResponse{
		ID:        session.ID,
		CompanyID: session.CompanyID,
		CreatedBy: session.CreatedBy,
		Title:     session.Title,
		CourseID:  session.CourseID,
		Status:    string(session.Status),
		StartedAt: session.StartedAt,
		StoppedAt: session.StoppedAt,
		StoppedBy: session.StoppedBy,
	}
}

type recordResponse struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"sessionId"`
	UserID       string     `json:"userId"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Status       string     `json:"status"`
	Method       string     `json:"method"`
	DeviceID     *string    `json:"deviceId,omitempty"`
}

func mapRecord(record *model.Record) recordResponse {
	return recordResponse{
		ID:           record.ID,
		SessionID:    record.SessionID,
		UserID:       record.UserID,
		CheckInTime:  record.CheckInTime,
		CheckOutTime: record.CheckOutTime,
		Status:       string(record.Status),
		Method:       string(record.Method),
		DeviceID:     record.DeviceID,
	}
}

type tokenResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Code      string    `json:"code"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
}

func mapToken(token *model.QrToken) tokenResponse {
	return tokenResponse{
		ID:        token.ID,
		SessionID: token.SessionID,
		Code:      token.Code,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		IsUsed:    token.IsUsed,
	}
}
