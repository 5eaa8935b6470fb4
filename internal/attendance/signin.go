package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type SignInResult struct {
	Record  *model.Record
	Session *model.Session
}

type SignOutResult struct {
	Record   *model.Record
	Duration string
}

type SignInStatus struct {
	SignedIn bool
	Record   *model.Record
}

// SignIn opens a workday record for a corporate employee. When no session is
// active one is auto-created so the first arrival of the day does not fail;
// that session is owned by the employee who triggered it.
func (s *Service) SignIn(ctx context.Context, actor *model.User, deviceID string) (*SignInResult, error) {
	company, err := s.store.GetCompany(ctx, actor.CompanyID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCompanyInactive
		}
		return nil, err
	}
	if company.Mode != model.ModeCorporate {
		return nil, ErrNotCorporate
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	now := s.now()
	session, err := s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		session = model.Session{
			ID:        uuid.NewString(),
			CompanyID: actor.CompanyID,
			CreatedBy: actor.ID,
			Title:     fmt.Sprintf("Work Day - %s", now.Format("2006-01-02")),
			Status:    model.SessionActive,
			StartedAt: now,
			CreatedAt: now,
		}
		if err := s.store.CreateSession(ctx, session); err != nil {
			if !db.IsUniqueViolation(err) {
				return nil, err
			}
			// Another employee created it in the same instant.
			session, err = s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
			if err != nil {
				return nil, err
			}
		}
	}

	// An open record anywhere blocks a new sign-in, even if it belongs to a
	// previous day's session that was never signed out of.
	if _, err := s.store.OpenRecordForUser(ctx, actor.CompanyID, actor.ID); err == nil {
		return nil, ErrAlreadySignedIn
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	if existing, err := s.store.GetRecordForSessionUser(ctx, session.ID, actor.ID); err == nil {
		if existing.CheckOutTime != nil {
			return nil, ErrSignInCompleted
		}
		return nil, ErrAlreadySignedIn
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	record := model.Record{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		UserID:      actor.ID,
		CompanyID:   actor.CompanyID,
		CheckInTime: now,
		Status:      lateStatus(session.StartedAt, now, s.lateThreshold),
		Method:      model.MethodManual,
		CreatedAt:   now,
	}
	if deviceID != "" {
		device := deviceID
		record.DeviceID = &device
	}
	if err := s.store.CreateRecord(ctx, record); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSignInCompleted
		}
		return nil, err
	}
	return &SignInResult{Record: &record, Session: &session}, nil
}

// SignOut closes the caller's open workday record and reports the elapsed
// duration as "XhYm". The tenant checks mirror SignIn's.
func (s *Service) SignOut(ctx context.Context, actor *model.User) (*SignOutResult, error) {
	company, err := s.store.GetCompany(ctx, actor.CompanyID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCompanyInactive
		}
		return nil, err
	}
	if company.Mode != model.ModeCorporate {
		return nil, ErrNotCorporate
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	record, err := s.store.OpenRecordForUser(ctx, actor.CompanyID, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNoOpenSignIn
		}
		return nil, err
	}

	now := s.now()
	if err := s.store.SetRecordCheckOut(ctx, record.ID, now); err != nil {
		return nil, err
	}
	record.CheckOutTime = &now
	return &SignOutResult{
		Record:   &record,
		Duration: formatDuration(now.Sub(record.CheckInTime)),
	}, nil
}

// CurrentSignIn reports whether the caller has an open workday record.
func (s *Service) CurrentSignIn(ctx context.Context, actor *model.User) (*SignInStatus, error) {
	record, err := s.store.OpenRecordForUser(ctx, actor.CompanyID, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return &SignInStatus{SignedIn: false}, nil
		}
		return nil, err
	}
	return &SignInStatus{SignedIn: true, Record: &record}, nil
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
