package tasks

import (
	"fmt"
	"math"
	"os"

	"github.com/desertthunder/audious/internal/shared"
)

const bytesPerGigabyte = 1024 * 1024 * 1024

// EstimateSize sums the sizes of paths in gigabytes, rounded to two decimals.
//
// Every missing or unreadable file contributes 0 and exactly one recoverable error.
func EstimateSize(paths []string) (float64, []error) {
	var (
		total int64
		errs  []error
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, shared.RecoverableError(fmt.Sprintf("the following song was not found: '%s'", p), err))
			continue
		}
		total += info.Size()
	}
	return roundGigabytes(total), errs
}

func roundGigabytes(bytes int64) float64 {
	return math.Round(float64(bytes)/bytesPerGigabyte*100) / 100
}
