package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

// IssueToken creates a code/token pair for an active session. The code is
// probed for collisions among currently valid tokens of the same session;
// the token's global uniqueness is enforced by the storage index, retried on
// the (vanishing) chance of a collision.
func (s *Service) IssueToken(ctx context.Context, scope model.Scope, actor *model.User, sessionID string, expiry time.Duration) (*model.QrToken, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, ErrSessionNotFound
	}
	creatorID := ""
	if actor.Role == model.RoleLecturer {
		creatorID = actor.ID
	}
	session, err := s.store.GetSession(ctx, scope, sessionID, creatorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionInactive
	}

	if expiry <= 0 {
		expiry = s.tokenExpiry
	}
	now := s.now()
	expiresAt := now.Add(expiry)

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := UniqueCode(func(code string) (bool, error) {
			return s.store.ValidCodeExists(ctx, session.ID, code, now)
		})
		if err != nil {
			return nil, err
		}
		tokenValue, err := GenerateToken()
		if err != nil {
			return nil, err
		}

		token := model.QrToken{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			CompanyID: session.CompanyID,
			Code:      code,
			Token:     tokenValue,
			ExpiresAt: expiresAt,
			CreatedBy: actor.ID,
			CreatedAt: now,
		}
		if err := s.store.CreateToken(ctx, token); err != nil {
			if db.IsUniqueViolation(err) && attempt < createAttempts-1 {
				continue
			}
			return nil, err
		}
		return &token, nil
	}
	return nil, ErrCodeExhausted
}

// ValidateToken checks a token (or code + session) without consuming it.
func (s *Service) ValidateToken(ctx context.Context, tokenValue, code, sessionID string) (*model.QrToken, error) {
	token, err := s.lookupToken(ctx, tokenValue, code, sessionID)
	if err != nil {
		return nil, err
	}
	if token.IsExpired(s.now()) {
		return nil, ErrTokenExpired
	}
	if token.IsUsed {
		return nil, ErrTokenUsed
	}
	return token, nil
}

func (s *Service) lookupToken(ctx context.Context, tokenValue, code, sessionID string) (*model.QrToken, error) {
	var (
		token model.QrToken
		err   error
	)
	if tokenValue != "" {
		token, err = s.store.GetTokenByValue(ctx, tokenValue)
	} else {
		if sessionID == "" {
			return nil, errInvalid("session_required", "Session ID is required when validating by code")
		}
		token, err = s.store.GetTokenByCode(ctx, sessionID, code)
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// redeemToken flips the token to used exactly once. The flip happens before
// the attendance record write so two simultaneous redeemers cannot both
// succeed; expiry is checked first and wins regardless of is_used.
func (s *Service) redeemToken(ctx context.Context, tokenValue, code, sessionID string) (*model.QrToken, error) {
	token, err := s.lookupToken(ctx, tokenValue, code, sessionID)
	if err != nil {
		return nil, err
	}
	if token.IsExpired(s.now()) {
		return nil, ErrTokenExpired
	}
	if token.IsUsed {
		return nil, ErrTokenUsed
	}
	flipped, err := s.store.MarkTokenUsed(ctx, token.ID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, ErrTokenUsed
	}
	token.IsUsed = true
	return token, nil
}
