package db

import (
	"context"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

const userColumns = `
	id, company_id, name, email, index_number, employee_id, password_hash,
	role, device_id, last_logout_time, is_approved, is_active, created_at, updated_at
`

func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, userID)
	err := row.Scan(
		&user.ID,
		&user.CompanyID,
		&user.Name,
		&user.Email,
		&user.IndexNumber,
		&user.EmployeeID,
		&user.PasswordHash,
		&user.Role,
		&user.DeviceID,
		&user.LastLogoutTime,
		&user.IsApproved,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
