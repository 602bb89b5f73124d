package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by mutations that target a record that does not
// exist. Single-entity getters return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// QuotaExceededError is returned when a wave assignment would push an
// agent's usage past their wave balance. It carries the current balance so
// callers can show it to the user.
type QuotaExceededError struct {
	UserID      string `json:"user_id"`
	WaveBalance int    `json:"wave_balance"`
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("wave quota exceeded for user %s: current balance is %d", e.UserID, e.WaveBalance)
}

// IsQuotaExceeded checks if an error is a QuotaExceededError.
func IsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var quotaErr *QuotaExceededError
	if errors.As(err, &quotaErr) {
		return quotaErr, true
	}
	return nil, false
}
