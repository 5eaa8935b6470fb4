package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

const sessionColumns = `
	id, company_id, created_by, title, course_id, status, started_at,
	stopped_at, stopped_by, qr_seed, ble_location_id, created_at, updated_at
`

func scanSession(row pgx.Row) (model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.CompanyID,
		&session.CreatedBy,
		&session.Title,
		&session.CourseID,
		&session.Status,
		&session.StartedAt,
		&session.StoppedAt,
		&session.StoppedBy,
		&session.QrSeed,
		&session.BleLocationID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	return session, err
}

func (s *Store) CreateSession(ctx context.Context, session model.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance_sessions
			(id, company_id, created_by, title, course_id, status, started_at, qr_seed, ble_location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, session.ID, session.CompanyID, session.CreatedBy, session.Title, session.CourseID,
		session.Status, session.StartedAt, session.QrSeed, session.BleLocationID, session.CreatedAt)
	return err
}

// ActiveSessionForCompany returns the most recently started active session
// for the tenant, used by every check-in path that omits a session id.
func (s *Store) ActiveSessionForCompany(ctx context.Context, companyID string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE company_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`, companyID)
	return scanSession(row)
}

func (s *Store) ActiveSessionForCreator(ctx context.Context, companyID, createdBy string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE company_id = $1 AND created_by = $2 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`, companyID, createdBy)
	return scanSession(row)
}

// GetSession looks a session up inside the given tenant scope; creatorID
// further restricts the lookup for non-elevated actors.
func (s *Store) GetSession(ctx context.Context, scope model.Scope, sessionID string, creatorID string) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`
	args := []interface{}{sessionID}
	if !scope.AllTenants {
		args = append(args, scope.CompanyID)
		query += ` AND company_id = $` + strconv.Itoa(len(args))
	}
	if creatorID != "" {
		args = append(args, creatorID)
		query += ` AND created_by = $` + strconv.Itoa(len(args))
	}
	return scanSession(s.pool.QueryRow(ctx, query, args...))
}

func (s *Store) GetActiveSessionForMark(ctx context.Context, companyID, sessionID string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE id = $1 AND company_id = $2 AND status = 'active'
	`, sessionID, companyID)
	return scanSession(row)
}

func (s *Store) GetSessionForCompany(ctx context.Context, companyID, sessionID string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE id = $1 AND company_id = $2
	`, sessionID, companyID)
	return scanSession(row)
}

// StopSession flips an active session to stopped. Returns false when the
// session had already been stopped by a concurrent actor.
func (s *Store) StopSession(ctx context.Context, sessionID, stoppedBy string, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE attendance_sessions
		SET status = 'stopped', stopped_at = $1, stopped_by = $2, updated_at = $1
		WHERE id = $3 AND status = 'active'
	`, at, stoppedBy, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type SessionFilter struct {
	Scope     model.Scope
	CreatedBy string
	Status    model.SessionStatus
	Limit     int
	Offset    int
}

func (s *Store) ListSessions(ctx context.Context, filter SessionFilter) ([]model.Session, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if !filter.Scope.AllTenants {
		args = append(args, filter.Scope.CompanyID)
		where += ` AND company_id = $` + strconv.Itoa(len(args))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		where += ` AND created_by = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM attendance_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitArg := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetArg := strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions`+where+`
		ORDER BY started_at DESC
		LIMIT $`+limitArg+` OFFSET $`+offsetArg, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, session)
	}
	return sessions, total, rows.Err()
}
