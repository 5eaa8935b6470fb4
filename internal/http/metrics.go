package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
)

var (
	checkinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_checkins_total",
		Help: "Successful check-ins by method.",
	}, []string{"method"})

	tokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_qr_tokens_issued_total",
		Help: "Code/token pairs issued for sessions.",
	})

	redemptionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_token_redemption_failures_total",
		Help: "Token redemption and validation failures by reason.",
	}, []string{"reason"})
)

// countRedemptionFailure records token-terminal failures only; other domain
// errors are not redemption outcomes.
func countRedemptionFailure(err error) {
	domainErr, ok := attendance.AsError(err)
	if !ok {
		return
	}
	switch domainErr {
	case attendance.ErrTokenNotFound, attendance.ErrTokenExpired, attendance.ErrTokenUsed:
		redemptionFailuresTotal.WithLabelValues(domainErr.Code).Inc()
	}
}
