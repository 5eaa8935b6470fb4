package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

const recordColumns = `
	id, session_id, user_id, company_id, check_in_time, check_out_time,
	status, method, device_id, qr_token_id, created_at
`

func scanRecord(row pgx.Row) (model.Record, error) {
	var record model.Record
	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.UserID,
		&record.CompanyID,
		&record.CheckInTime,
		&record.CheckOutTime,
		&record.Status,
		&record.Method,
		&record.DeviceID,
		&record.QrTokenID,
		&record.CreatedAt,
	)
	return record, err
}

func (s *Store) CreateRecord(ctx context.Context, record model.Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance_records
			(id, session_id, user_id, company_id, check_in_time, check_out_time, status, method, device_id, qr_token_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, record.ID, record.SessionID, record.UserID, record.CompanyID, record.CheckInTime,
		record.CheckOutTime, record.Status, record.Method, record.DeviceID, record.QrTokenID, record.CreatedAt)
	return err
}

func (s *Store) GetRecordForSessionUser(ctx context.Context, sessionID, userID string) (model.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID)
	return scanRecord(row)
}

// OpenRecordForUser returns the caller's most recent record that has not
// been checked out yet, across all sessions.
func (s *Store) OpenRecordForUser(ctx context.Context, companyID, userID string) (model.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE user_id = $1 AND company_id = $2 AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`, userID, companyID)
	return scanRecord(row)
}

func (s *Store) SetRecordCheckOut(ctx context.Context, recordID string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE attendance_records SET check_out_time = $1 WHERE id = $2 AND check_out_time IS NULL
	`, at, recordID)
	return err
}

func (s *Store) ListRecordsBySession(ctx context.Context, sessionID string) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE session_id = $1
		ORDER BY check_in_time ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) ListRecordsForUser(ctx context.Context, companyID, userID string, limit, offset int) ([]model.Record, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM attendance_records WHERE user_id = $1 AND company_id = $2
	`, userID, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE user_id = $1 AND company_id = $2
		ORDER BY check_in_time DESC
		LIMIT $3 OFFSET $4
	`, userID, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	return records, total, rows.Err()
}
