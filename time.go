package lectures

import (
	"time"

	"github.com/goliatone/go-errors"
)

// IsOutsideThresholdPeriod checks whether the given timestamp falls
// outside the provided period, e.g. "24h", counting from now.
func IsOutsideThresholdPeriod(t time.Time, period string) (bool, error) {
	d, err := time.ParseDuration(period)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "invalid threshold period")
	}

	return time.Since(t) > d, nil
}
