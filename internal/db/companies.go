package db

import (
	"context"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

const companyColumns = `
	id, name, mode, institution_code, subscription_active, subscription_status,
	subscription_plan, trial_start_date, trial_end_date, trial_used, qr_seed,
	ble_location_id, is_active, created_at, updated_at
`

func (s *Store) GetCompany(ctx context.Context, companyID string) (model.Company, error) {
	var company model.Company
	row := s.pool.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE id = $1
	`, companyID)
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Mode,
		&company.InstitutionCode,
		&company.SubscriptionActive,
		&company.SubscriptionStatus,
		&company.SubscriptionPlan,
		&company.TrialStartDate,
		&company.TrialEndDate,
		&company.TrialUsed,
		&company.QrSeed,
		&company.BleLocationID,
		&company.IsActive,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	return company, err
}
