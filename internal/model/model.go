package model

import "time"

type CompanyMode string

const (
	ModeCorporate CompanyMode = "corporate"
	ModeAcademic  CompanyMode = "academic"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

type Company struct {
	ID                 string
	Name               string
	Mode               CompanyMode
	InstitutionCode    string
	SubscriptionActive bool
	SubscriptionStatus SubscriptionStatus
	SubscriptionPlan   string
	TrialStartDate     time.Time
	TrialEndDate       time.Time
	TrialUsed          bool
	QrSeed             string
	BleLocationID      string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTrialActive reports whether the tenant is still inside an unused trial
// window. An active subscription supersedes the trial entirely.
func (c *Company) IsTrialActive(now time.Time) bool {
	if c.SubscriptionActive || c.TrialUsed {
		return false
	}
	return now.Before(c.TrialEndDate)
}

func (c *Company) HasAccess(now time.Time) bool {
	return c.SubscriptionActive || c.IsTrialActive(now)
}

func (c *Company) TrialDaysRemaining(now time.Time) int {
	if c.SubscriptionActive || c.TrialUsed {
		return 0
	}
	remaining := c.TrialEndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

type User struct {
	ID             string
	CompanyID      string
	Name           string
	Email          *string
	IndexNumber    *string
	EmployeeID     *string
	PasswordHash   string
	Role           Role
	DeviceID       *string
	LastLogoutTime *time.Time
	IsApproved     bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionStopped SessionStatus = "stopped"
)

type Session struct {
	ID            string
	CompanyID     string
	CreatedBy     string
	Title         string
	CourseID      *string
	Status        SessionStatus
	StartedAt     time.Time
	StoppedAt     *time.Time
	StoppedBy     *string
	QrSeed        *string
	BleLocationID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type QrToken struct {
	ID        string
	SessionID string
	CompanyID string
	Code      string
	Token     string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedBy string
	CreatedAt time.Time
}

func (t *QrToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type RecordStatus string

const (
	StatusPresent RecordStatus = "present"
	StatusLate    RecordStatus = "late"
	StatusAbsent  RecordStatus = "absent"
	StatusExcused RecordStatus = "excused"
)

type Method string

const (
	MethodQr     Method = "qr_mark"
	MethodCode   Method = "code_mark"
	MethodBle    Method = "ble_mark"
	MethodJitsi  Method = "jitsi_join"
	MethodManual Method = "manual"
)

type Record struct {
	ID           string
	SessionID    string
	UserID       string
	CompanyID    string
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Status       RecordStatus
	Method       Method
	DeviceID     *string
	QrTokenID    *string
	CreatedAt    time.Time
}

type Course struct {
	ID         string
	CompanyID  string
	LecturerID *string
	Title      string
	Code       string
}

type Meeting struct {
	ID        string
	CompanyID string
	Title     string
	CreatedAt time.Time
}
