package service

import (
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// LateDays is the number of whole calendar days today lies past expiresOn, never negative.
func LateDays(expiresOn, today time.Time) int {
	d := model.Day(today).Sub(model.Day(expiresOn))
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// AccrueLateFee returns the fee for returning a copy on today; zero when it is not overdue.
func AccrueLateFee(expiresOn, today time.Time, ratePerDay int64) int64 {
	if ratePerDay <= 0 {
		return 0
	}
	return int64(LateDays(expiresOn, today)) * ratePerDay
}
