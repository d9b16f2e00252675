package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/penumbra/pkg/math"
)

// ParseTriple parses a string of space-separated floats such as "0.9 0.9 0.9".
// Fewer than three tokens wraps ErrShortTriple; extra tokens are ignored.
func ParseTriple(s string) (math.Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: %q", ErrShortTriple, s)
	}

	var c [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: component %d of %q", ErrMalformedNumber, i, s)
		}
		c[i] = float32(f)
	}
	return math.V3(c), nil
}
