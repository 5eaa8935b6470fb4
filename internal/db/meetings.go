package db

import "context"

func (s *Store) MeetingExists(ctx context.Context, companyID, meetingID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM meetings WHERE id = $1 AND company_id = $2)
	`, meetingID, companyID).Scan(&exists)
	return exists, err
}
