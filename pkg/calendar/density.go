package calendar

// Intensity bounds. A day at the year's maximum gets MinIntensity.
const (
	MaxIntensity  = 255
	MinIntensity  = 55
	intensitySpan = MaxIntensity - MinIntensity
)

// Intensity maps count to a colour channel value, 255 - count/maxCount*200,
// rounded down. Counts above maxCount clamp to MinIntensity. A non-positive
// maxCount yields MaxIntensity.
func Intensity(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return MaxIntensity
	}

	if count >= maxCount {
		return MinIntensity
	}

	// floor(255 - x) == 255 - ceil(x) for the non-negative x used here.
	shade := (count*intensitySpan + maxCount - 1) / maxCount

	return MaxIntensity - shade
}

// Scale binds Intensity to one year's maximum daily count.
type Scale struct {
	maxCount int
}

// NewScale returns the scale for a year whose busiest day has maxCount events.
func NewScale(maxCount int) Scale {
	return Scale{maxCount: max(maxCount, 0)}
}

// Max returns the maximum daily count the scale was built with.
func (s Scale) Max() int {
	return s.maxCount
}

// Zero reports whether the year has no events, in which case no day is
// shaded.
func (s Scale) Zero() bool {
	return s.maxCount == 0
}

// Intensity returns the intensity for count.
func (s Scale) Intensity(count int) int {
	return Intensity(count, s.maxCount)
}
