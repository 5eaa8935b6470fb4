package attendance

import (
	"context"

	"github.com/google/uuid"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

type StartSessionInput struct {
	Title    string
	CourseID string
}

func (s *Service) StartSession(ctx context.Context, actor *model.User, in StartSessionInput) (*model.Session, error) {
	company, err := s.store.GetCompany(ctx, actor.CompanyID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCompanyInactive
		}
		return nil, err
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	// Lecturers are blocked only by their own active session; elevated and
	// manager roles by any active session in the tenant.
	if actor.Role == model.RoleLecturer {
		_, err = s.store.ActiveSessionForCreator(ctx, actor.CompanyID, actor.ID)
	} else {
		_, err = s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
	}
	if err == nil {
		return nil, ErrActiveExists
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	var courseID *string
	if in.CourseID != "" {
		if _, err := uuid.Parse(in.CourseID); err != nil {
			return nil, ErrCourseNotFound
		}
		lecturerID := ""
		if actor.Role == model.RoleLecturer {
			lecturerID = actor.ID
		}
		exists, err := s.store.CourseExists(ctx, actor.CompanyID, in.CourseID, lecturerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrCourseNotFound
		}
		courseID = &in.CourseID
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.NewString(),
		CompanyID: actor.CompanyID,
		CreatedBy: actor.ID,
		Title:     in.Title,
		CourseID:  courseID,
		Status:    model.SessionActive,
		StartedAt: now,
		CreatedAt: now,
	}
	// Snapshot the tenant's seeds so later tenant rotation does not affect a
	// running session.
	if company.QrSeed != "" {
		seed := company.QrSeed
		session.QrSeed = &seed
	}
	if company.BleLocationID != "" {
		location := company.BleLocationID
		session.BleLocationID = &location
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrActiveExists
		}
		return nil, err
	}
	return &session, nil
}

func (s *Service) StopSession(ctx context.Context, scope model.Scope, actor *model.User, sessionID string) (*model.Session, error) {
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
	if session.Status == model.SessionStopped {
		return nil, ErrAlreadyStopped
	}

	now := s.now()
	stopped, err := s.store.StopSession(ctx, session.ID, actor.ID, now)
	if err != nil {
		return nil, err
	}
	if !stopped {
		// Lost the race to a concurrent stop.
		return nil, ErrAlreadyStopped
	}

	session.Status = model.SessionStopped
	session.StoppedAt = &now
	stoppedBy := actor.ID
	session.StoppedBy = &stoppedBy
	return &session, nil
}

// ActiveSession resolves the session check-ins should target when the caller
// does not name one: the most recently started active session in the
// caller's company, narrowed to their own for lecturers. Returns nil with no
// error when none exists.
func (s *Service) ActiveSession(ctx context.Context, actor *model.User) (*model.Session, error) {
	var (
		session model.Session
		err     error
	)
	if actor.Role == model.RoleLecturer {
		session, err = s.store.ActiveSessionForCreator(ctx, actor.CompanyID, actor.ID)
	} else {
		session, err = s.store.ActiveSessionForCompany(ctx, actor.CompanyID)
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}
