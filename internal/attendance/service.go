package attendance

import (
	"time"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
)

// Service is the attendance core: session lifecycle, token issuance and
// redemption, and the record engine. All uniqueness pre-checks in here are
// advisory; the storage unique indexes are authoritative and their
// violations are remapped to the matching domain error.
type Service struct {
	store         *db.Store
	lateThreshold time.Duration
	tokenExpiry   time.Duration
	now           func() time.Time
}

func New(store *db.Store, lateThreshold, tokenExpiry time.Duration) *Service {
	return &Service{
		store:         store,
		lateThreshold: lateThreshold,
		tokenExpiry:   tokenExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}
