package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type SyncInput struct {
	SessionID   string
	Method      string
	DeviceID    string
	CheckInTime time.Time
}

// SyncOffline replays a check-in that was queued on a disconnected device.
// Every domain failure here is terminal for the queued item: the caller's
// contract is to drop it from the queue rather than retry, so "session gone"
// and "already marked" are reported as their own error codes instead of the
// live-path equivalents.
//
// An explicitly named session is accepted even after it stopped, since the
// queued action predates the stop. Status is fixed to present: the offline
// path assumes the action happened in real time and only the sync was late.
func (s *Service) SyncOffline(ctx context.Context, actor *model.User, in SyncInput) (*model.Record, error) {
	var session *model.Session
	if in.SessionID != "" {
		if _, err := uuid.Parse(in.SessionID); err != nil {
			return nil, ErrSyncSessionClosed
		}
		found, err := s.store.GetSessionForCompany(ctx, actor.CompanyID, in.SessionID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, ErrSyncSessionClosed
			}
			return nil, err
		}
		session = &found
	} else {
		found, err := s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, ErrSyncSessionClosed
			}
			return nil, err
		}
		session = &found
	}

	if _, err := s.store.GetRecordForSessionUser(ctx, session.ID, actor.ID); err == nil {
		return nil, ErrSyncAlreadyMarked
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	method, err := NormalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = model.MethodCode
	}

	now := s.now()
	checkIn := in.CheckInTime
	if checkIn.IsZero() {
		checkIn = now
	}

	record := model.Record{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		UserID:      actor.ID,
		CompanyID:   actor.CompanyID,
		CheckInTime: checkIn,
		Status:      model.StatusPresent,
		Method:      method,
		CreatedAt:   now,
	}
	if in.DeviceID != "" {
		deviceID := in.DeviceID
		record.DeviceID = &deviceID
	}

	if err := s.store.CreateRecord(ctx, record); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSyncAlreadyMarked
		}
		return nil, err
	}
	return &record, nil
}
