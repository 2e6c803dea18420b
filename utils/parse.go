package utils

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// ParseFloat parses numeric user input. NaN and infinities are rejected
// so that slider scrubbing never writes garbage into node transforms.
func ParseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to parse number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("Not a finite number %q", s)
	}
	return float32(v), nil
}
