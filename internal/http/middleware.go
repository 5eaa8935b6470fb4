package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/auth"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type userKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		user, err := s.store.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if db.IsNotFound(err) {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if !user.IsActive || !user.IsApproved {
			writeError(w, http.StatusForbidden, "account_inactive")
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey{}).(*model.User)
	return user
}

func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "missing_token")
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessSnapshot is the cached subscription/trial state of a tenant. The
// cache only shaves the company lookup off hot check-in paths; a stale
// snapshot self-corrects within the TTL.
type accessSnapshot struct {
	HasAccess   bool      `json:"hasAccess"`
	OnTrial     bool      `json:"onTrial"`
	TrialDays   int       `json:"trialDays"`
	TrialEnd    time.Time `json:"trialEnd"`
	CompanyName string    `json:"companyName"`
}

// subscriptionGate blocks mutating actions for tenants whose trial lapsed
// without a paid plan. Superadmin is never gated; employees and students are
// exempt because the tenant's lapse is the admin's problem to fix, not a
// reason to lose attendance data.
func (s *Server) subscriptionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		switch user.Role {
		case model.RoleSuperadmin, model.RoleEmployee, model.RoleStudent:
			next.ServeHTTP(w, r)
			return
		}

		snapshot, err := s.tenantAccess(r.Context(), user.CompanyID)
		if err != nil {
			if db.IsNotFound(err) {
				writeError(w, http.StatusNotFound, "company_inactive")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if !snapshot.HasAccess {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"error":                "subscription_required",
				"message":              "Your trial has expired. Please subscribe to continue.",
				"subscriptionRequired": true,
				"trialEndDate":         snapshot.TrialEnd,
			})
			return
		}
		if snapshot.OnTrial {
			w.Header().Set("X-Trial-Days-Remaining", strconv.Itoa(snapshot.TrialDays))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) tenantAccess(ctx context.Context, companyID string) (accessSnapshot, error) {
	key := fmt.Sprintf("tenant_access:%s", companyID)
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var snapshot accessSnapshot
			if json.Unmarshal([]byte(raw), &snapshot) == nil {
				return snapshot, nil
			}
		} else if err != redis.Nil {
			log.Printf("http: tenant access cache read: %v", err)
		}
	}

	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return accessSnapshot{}, err
	}
	now := time.Now().UTC()
	// Deliberately ignores company.IsActive: an inactive tenant is the
	// service layer's company_inactive case, not a subscription lapse.
	snapshot := accessSnapshot{
		HasAccess:   company.HasAccess(now),
		OnTrial:     company.IsTrialActive(now),
		TrialDays:   company.TrialDaysRemaining(now),
		TrialEnd:    company.TrialEndDate,
		CompanyName: company.Name,
	}

	if s.redis != nil {
		if raw, err := json.Marshal(snapshot); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.cfg.AccessCacheTTL).Err(); err != nil {
				log.Printf("http: tenant access cache write: %v", err)
			}
		}
	}
	return snapshot, nil
}

// requestDeviceID resolves the caller's device id: the X-Device-ID header,
// falling back to a deviceId body field. The body is restored for the
// downstream handler.
func requestDeviceID(r *http.Request) (string, error) {
	if deviceID := strings.TrimSpace(r.Header.Get("X-Device-ID")); deviceID != "" {
		return deviceID, nil
	}
	body, err := readBodyBytes(r)
	if err != nil {
		return "", err
	}
	if len(body) > 0 {
		var payload struct {
			DeviceID string `json:"deviceId"`
		}
		if json.Unmarshal(body, &payload) == nil {
			return strings.TrimSpace(payload.DeviceID), nil
		}
	}
	return "", nil
}

// enforceCooldown applies the post-logout cooldown: a user who logged out
// may not mutate until the cooldown lapses, unless the request comes from
// their bound device. Writes the refusal and reports whether it did.
func (s *Server) enforceCooldown(w http.ResponseWriter, user *model.User, deviceID string) bool {
	if user.LastLogoutTime == nil {
		return false
	}
	restrictedUntil := user.LastLogoutTime.Add(s.cfg.LogoutCooldown)
	if !time.Now().UTC().Before(restrictedUntil) {
		return false
	}
	boundDevice := ""
	if user.DeviceID != nil {
		boundDevice = *user.DeviceID
	}
	if boundDevice != "" && deviceID == boundDevice {
		return false
	}
	writeJSON(w, http.StatusForbidden, map[string]interface{}{
		"error":           "logout_cooldown",
		"message":         "Recently logged out. Use your registered device or wait for the cooldown.",
		"restrictedUntil": restrictedUntil,
	})
	return true
}

// logoutCooldown guards mutating check-in routes with the cooldown alone.
func (s *Server) logoutCooldown(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		deviceID, err := requestDeviceID(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if s.enforceCooldown(w, user, deviceID) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// deviceCooldown additionally enforces device binding on top of the cooldown
// for routes that redeem credentials.
func (s *Server) deviceCooldown(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		deviceID, err := requestDeviceID(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}

		boundDevice := ""
		if user.DeviceID != nil {
			boundDevice = *user.DeviceID
		}
		if boundDevice != "" && deviceID != "" && deviceID != boundDevice {
			writeError(w, http.StatusForbidden, "device_mismatch")
			return
		}

		if s.enforceCooldown(w, user, deviceID) {
			return
		}
		next.ServeHTTP(w, r)
	})
}
