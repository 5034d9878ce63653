package spatialmath

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// spaceDelimitedStringToSlice splits whitespace-delimited numbers, such as the rows of a pose
// text file, into floats.
func spaceDelimitedStringToSlice(s string) ([]float64, error) {
	var converted []float64
	for _, field := range strings.Fields(s) {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as a number", field)
		}
		converted = append(converted, value)
	}
	return converted, nil
}
