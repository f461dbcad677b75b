package metrics

import (
	"math"
	"time"

	"pharmapulse/backend/internal/domain"
)

const DefaultExpiryWindowDays = 90

type ExpiryStatus string

const (
	Expired      ExpiryStatus = "expired"
	ExpiringSoon ExpiryStatus = "expiring_soon"
	Fresh        ExpiryStatus = "ok"
)

// DaysToExpiry is the ceiling of (expiry - asOf) in whole days. Negative
// once the medicine has expired.
func DaysToExpiry(m domain.Medicine, asOf time.Time) int {
	diff := m.ExpiryDate.Sub(asOf)
	days := math.Ceil(diff.Hours() / 24)
	if days == 0 {
		// normalise -0
		return 0
	}
	return int(days)
}

// ClassifyExpiry puts every medicine in exactly one bucket. windowDays <= 0
// means DefaultExpiryWindowDays.
func ClassifyExpiry(m domain.Medicine, asOf time.Time, windowDays int) ExpiryStatus {
	if windowDays <= 0 {
		windowDays = DefaultExpiryWindowDays
	}
	days := DaysToExpiry(m, asOf)
	switch {
	case days < 0:
		return Expired
	case days <= windowDays:
		return ExpiringSoon
	default:
		return Fresh
	}
}

func IsExpiringSoon(m domain.Medicine, asOf time.Time, windowDays int) bool {
	return ClassifyExpiry(m, asOf, windowDays) == ExpiringSoon
}

func IsExpired(m domain.Medicine, asOf time.Time) bool {
	return DaysToExpiry(m, asOf) < 0
}
