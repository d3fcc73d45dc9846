package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
)

// Conversion factors to printer's points for absolute CSS length units.
var unitsInPoints = map[string]float64{
	"pt": 1.0,
	"px": 72.27 / 96.0, // CSS reference pixel is 1/96 in
	"in": 72.27,
	"cm": 72.27 / 2.54,
	"mm": 72.27 / 25.4,
	"pc": 12.0,
}

// ParseDimen interprets a property value as an absolute CSS length and
// returns it as a tyse dimension. A bare "0" is accepted without unit.
// Relative units (em, %, vh, …) are not absolute and will flag an error.
//
// Example:
//    ParseDimen("12pt") => 12 * dimen.PT
//
func ParseDimen(p Property) (dimen.DU, error) {
	s := strings.TrimSpace(strings.ToLower(p.String()))
	if s == "" {
		return 0, fmt.Errorf("empty dimension")
	}
	if s == "0" {
		return 0, nil
	}
	i := len(s)
	for i > 0 && (s[i-1] < '0' || s[i-1] > '9') && s[i-1] != '.' {
		i--
	}
	num, unit := s[:i], s[i:]
	factor, ok := unitsInPoints[unit]
	if !ok {
		return 0, fmt.Errorf("not an absolute dimension: %q", p)
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("not a dimension: %q", p)
	}
	du := dimen.DU(x * factor * float64(dimen.PT))
	tracer().Debugf("dimension %q = %d sp", p, du)
	return du, nil
}

// IsDimension is a predicate wether a property value parses as an absolute
// CSS length, see ParseDimen.
func IsDimension(p Property) bool {
	_, err := ParseDimen(p)
	return err == nil
}
