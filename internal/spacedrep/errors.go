package spacedrep

import "fmt"

// InvalidQualityError indicates a recall grade outside the 0-5 range.
// The grade is rejected before any scheduling math runs.
type InvalidQualityError struct {
	Quality int
}

func (e *InvalidQualityError) Error() string {
	return fmt.Sprintf("quality %d outside valid range %d-%d", e.Quality, MinQuality, MaxQuality)
}
