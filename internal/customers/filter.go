package customers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/utils"
)

// Filter keys accepted from query strings and model output.
const (
	KeySearch      = "search"
	KeySortBy      = "sort_by"
	KeySortDir     = "sort_dir"
	KeyGender      = "gender"
	KeyRiskProfile = "riskProfile"
	KeyAUMMin      = "aum_min"
	KeyAUMMax      = "aum_max"
	KeyAgeMin      = "age_min"
	KeyAgeMax      = "age_max"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// AllowedKeys lists every filter key in prompt order.
var AllowedKeys = []string{
	KeyGender, KeyRiskProfile, KeyAUMMin, KeyAUMMax, KeyAgeMin, KeyAgeMax,
	KeySearch, KeySortBy, KeySortDir,
}

// Filter is a validated set of roster constraints. Zero values mean "unset".
type Filter struct {
	Search      string `json:"search,omitempty"`
	SortBy      string `json:"sort_by,omitempty"`
	SortDir     string `json:"sort_dir,omitempty"`
	Gender      string `json:"gender,omitempty"`
	RiskProfile string `json:"riskProfile,omitempty"`
	AUMMin      *int64 `json:"aum_min,omitempty"`
	AUMMax      *int64 `json:"aum_max,omitempty"`
	AgeMin      *int   `json:"age_min,omitempty"`
	AgeMax      *int   `json:"age_max,omitempty"`
}

// Empty reports whether no constraint is set.
func (f Filter) Empty() bool {
	return f.Search == "" && f.SortBy == "" && f.SortDir == "" &&
		f.Gender == "" && f.RiskProfile == "" &&
		f.AUMMin == nil && f.AUMMax == nil && f.AgeMin == nil && f.AgeMax == nil
}

// Descending reports whether results sort high-to-low. An unset direction is descending.
func (f Filter) Descending() bool {
	return f.SortDir == "" || f.SortDir == SortDesc
}

// Validate keeps the allowed keys of raw and coerces each to its declared type.
// Values that cannot be coerced are dropped; unknown keys are ignored.
func Validate(raw map[string]any) Filter {
	var f Filter
	for key, value := range raw {
		if value == nil {
			continue
		}
		var err error
		switch key {
		case KeySearch:
			f.Search, err = toText(value, false)
		case KeySortBy:
			f.SortBy, err = toText(value, false)
		case KeySortDir:
			f.SortDir, err = toSortDir(value)
		case KeyGender:
			f.Gender, err = toText(value, true)
		case KeyRiskProfile:
			f.RiskProfile, err = toText(value, true)
		case KeyAUMMin:
			f.AUMMin, err = toInt64(value)
		case KeyAUMMax:
			f.AUMMax, err = toInt64(value)
		case KeyAgeMin:
			f.AgeMin, err = toInt(value)
		case KeyAgeMax:
			f.AgeMax, err = toInt(value)
		default:
			utils.Zlog.Debug("dropping unknown filter key", zap.String("key", key))
			continue
		}
		if err != nil {
			utils.Zlog.Debug("dropping filter value",
				zap.String("key", key),
				zap.Any("value", value),
				zap.Error(err))
		}
	}
	return f
}

// FromQuery validates URL query values, taking the first value of each key.
func FromQuery(values map[string][]string) Filter {
	raw := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			raw[key] = vs[0]
		}
	}
	return Validate(raw)
}

func toText(value any, lower bool) (string, error) {
	if _, ok := value.(bool); ok {
		return "", fmt.Errorf("unexpected boolean")
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if lower {
		s = strings.ToLower(s)
	}
	return s, nil
}

// toSortDir maps "desc" to descending and any other non-empty value to ascending.
func toSortDir(value any) (string, error) {
	s, err := toText(value, true)
	if err != nil || s == "" {
		return "", err
	}
	if s == SortDesc {
		return SortDesc, nil
	}
	return SortAsc, nil
}

func toInt64(value any) (*int64, error) {
	switch v := value.(type) {
	case bool:
		return nil, fmt.Errorf("unexpected boolean")
	case string:
		s := normalizeNumber(v)
		if s == "" {
			return nil, nil
		}
		// base 10 only; cast would read "010" as octal
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("%d is out of range", v)
		}
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, fmt.Errorf("%d is out of range", v)
		}
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// floatToInt64 truncates f, rejecting values an int64 cannot hold.
func floatToInt64(f float64) (*int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not a finite number", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is out of range", f)
	}
	n := int64(f)
	return &n, nil
}

func toInt(value any) (*int, error) {
	n, err := toInt64(value)
	if err != nil || n == nil {
		return nil, err
	}
	if *n < math.MinInt || *n > math.MaxInt {
		return nil, fmt.Errorf("%d is out of range", *n)
	}
	i := int(*n)
	return &i, nil
}

// normalizeNumber strips thousands separators and currency marks from s.
func normalizeNumber(s string) string {
	return strings.NewReplacer(",", "", "_", "", "$", "", " ", "").Replace(strings.TrimSpace(s))
}
