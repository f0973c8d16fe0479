// Package aqi classifies PM2.5 concentrations into severity categories.
// It is the single source of truth for both live readings and forecast
// values, so the two surfaces can never disagree.
package aqi

// Category is a named PM2.5 severity band.
type Category string

// Categories in increasing severity. Unknown sits outside the numeric
// ordering and is used for missing values.
const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategorySensitive     Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryUnknown       Category = "Unknown"
)

// Severity returns the category's rank for ordering, with Unknown below all
// numeric bands.
func (c Category) Severity() int {
	switch c {
	case CategoryGood:
		return 1
	case CategoryModerate:
		return 2
	case CategorySensitive:
		return 3
	case CategoryUnhealthy:
		return 4
	case CategoryVeryUnhealthy:
		return 5
	default:
		return 0
	}
}

// Thresholds are the exclusive upper bounds (µg/m³) of each band below
// Very Unhealthy. Values at or above Unhealthy's bound classify as
// Very Unhealthy.
type Thresholds struct {
	Good      float64
	Moderate  float64
	Sensitive float64
	Unhealthy float64
}

// DefaultThresholds returns the WHO-derived band bounds used in production.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Good:      15,
		Moderate:  25,
		Sensitive: 37.5,
		Unhealthy: 75,
	}
}

// Classifier maps PM2.5 concentrations to categories using configured
// thresholds. Stateless and safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier, falling back to DefaultThresholds for
// a zero-value configuration.
func NewClassifier(t Thresholds) *Classifier {
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	return &Classifier{thresholds: t}
}

// Classify maps a PM2.5 concentration to its category. Bands are half-open:
// a value equal to a bound belongs to the next band up. A nil value maps to
// Unknown, never to a numeric band.
func (c *Classifier) Classify(pm25 *float64) Category {
	if pm25 == nil {
		return CategoryUnknown
	}

	v := *pm25
	switch {
	case v < c.thresholds.Good:
		return CategoryGood
	case v < c.thresholds.Moderate:
		return CategoryModerate
	case v < c.thresholds.Sensitive:
		return CategorySensitive
	case v < c.thresholds.Unhealthy:
		return CategoryUnhealthy
	default:
		return CategoryVeryUnhealthy
	}
}
