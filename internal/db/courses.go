package db

import "context"

// CourseExists verifies a course belongs to the tenant; lecturerID, when
// given, additionally requires the course to be assigned to that lecturer.
func (s *Store) CourseExists(ctx context.Context, companyID, courseID, lecturerID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1 AND company_id = $2`
	args := []interface{}{courseID, companyID}
	if lecturerID != "" {
		query += ` AND lecturer_id = $3`
		args = append(args, lecturerID)
	}
	query += `)`
	var exists bool
	err := s.pool.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}
