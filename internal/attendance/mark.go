package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type MarkInput struct {
	SessionID string
	QrToken   string
	Code      string
	Method    string
	MeetingID string
	DeviceID  string
}

// NormalizeMethod maps client method spellings onto the stored enum. An
// empty input is allowed and resolved later from the supplied credentials.
func NormalizeMethod(value string) (model.Method, error) {
	switch value {
	case "":
		return "", nil
	case "qr", string(model.MethodQr):
		return model.MethodQr, nil
	case "code", string(model.MethodCode):
		return model.MethodCode, nil
	case "ble", string(model.MethodBle):
		return model.MethodBle, nil
	case "zoom", "jitsi", string(model.MethodJitsi):
		return model.MethodJitsi, nil
	case string(model.MethodManual):
		return model.MethodManual, nil
	default:
		return "", ErrInvalidMethod
	}
}

// lateStatus derives on-time/late purely from elapsed time. A check-in at
// exactly startedAt + threshold is already late; one instant before is not.
func lateStatus(startedAt, checkIn time.Time, threshold time.Duration) model.RecordStatus {
	if checkIn.Sub(startedAt) >= threshold {
		return model.StatusLate
	}
	return model.StatusPresent
}

// Mark converts a verified check-in into exactly one attendance record per
// (session, user). The existing-record pre-check is a latency optimization;
// the unique index on (session_id, user_id) is the actual guarantee.
func (s *Service) Mark(ctx context.Context, actor *model.User, in MarkInput) (*model.Record, error) {
	session, err := s.resolveSession(ctx, actor, in.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetRecordForSessionUser(ctx, session.ID, actor.ID); err == nil {
		return nil, ErrAlreadyMarked
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	method, err := NormalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}

	var tokenID *string
	switch {
	case method == model.MethodQr:
		if in.QrToken == "" {
			return nil, ErrQrTokenRequired
		}
		token, err := s.redeemToken(ctx, in.QrToken, "", "")
		if err != nil {
			return nil, err
		}
		tokenID = &token.ID
	case in.QrToken != "" || in.Code != "":
		token, err := s.redeemToken(ctx, in.QrToken, in.Code, session.ID)
		if err != nil {
			return nil, err
		}
		tokenID = &token.ID
		if method == "" {
			method = model.MethodCode
		}
	case method == model.MethodCode:
		return nil, ErrCodeRequired
	case method == model.MethodJitsi:
		if in.MeetingID == "" {
			return nil, ErrMeetingRequired
		}
		if _, err := uuid.Parse(in.MeetingID); err != nil {
			return nil, ErrMeetingNotFound
		}
		exists, err := s.store.MeetingExists(ctx, actor.CompanyID, in.MeetingID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrMeetingNotFound
		}
	case method == "":
		method = model.MethodManual
	}

	now := s.now()
	record := model.Record{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		UserID:      actor.ID,
		CompanyID:   actor.CompanyID,
		CheckInTime: now,
		Status:      lateStatus(session.StartedAt, now, s.lateThreshold),
		Method:      method,
		QrTokenID:   tokenID,
		CreatedAt:   now,
	}
	if in.DeviceID != "" {
		deviceID := in.DeviceID
		record.DeviceID = &deviceID
	}

	if err := s.store.CreateRecord(ctx, record); err != nil {
		if db.IsUniqueViolation(err) {
			// Race beyond the pre-check; same outcome as the pre-check.
			return nil, ErrAlreadyMarked
		}
		return nil, err
	}
	return &record, nil
}

// resolveSession returns the explicit session when a parseable id is given,
// otherwise falls back to auto-detecting the tenant's active session.
func (s *Service) resolveSession(ctx context.Context, actor *model.User, sessionID string) (*model.Session, error) {
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err == nil {
			session, err := s.store.GetActiveSessionForMark(ctx, actor.CompanyID, sessionID)
			if err != nil {
				if db.IsNotFound(err) {
					return nil, ErrNoActiveSession
				}
				return nil, err
			}
			return &session, nil
		}
	}
	session, err := s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return &session, nil
}
