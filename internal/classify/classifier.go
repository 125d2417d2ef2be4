// Package classify suggests a category for free-text transaction
// descriptions by scoring them against a fixed keyword table.
package classify

import (
	"math"
	"strings"

	"financepro/internal/core"
)

// Result is a category suggestion. Confidence is a [0,1] hint derived
// from the match count, not a probability.
type Result struct {
	CategoryName string
	MatchCount   int
	Confidence   float64
}

// Classify scores description and vendor against the keyword table and
// returns the best-matching category. Matching is plain substring
// matching on the lowercased text, deliberately without word boundaries,
// so a keyword may match inside a longer word.
//
// The category with the strictly highest count wins; on a tie the entry
// appearing first in the table wins. When nothing matches the result is
// the Uncategorized fallback with zero confidence. Pure function, safe
// for concurrent use.
func Classify(description, vendor string) Result {
	parts := make([]string, 0, 2)
	if description != "" {
		parts = append(parts, description)
	}
	if vendor != "" {
		parts = append(parts, vendor)
	}
	text := strings.ToLower(strings.Join(parts, " "))

	best := Result{}
	for _, rule := range keywordTable {
		count := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > best.MatchCount {
			best.MatchCount = count
			best.CategoryName = rule.Category
		}
	}

	if best.MatchCount == 0 {
		return Result{CategoryName: core.UncategorizedName}
	}

	best.Confidence = confidence(best.MatchCount)
	return best
}

// confidence caps at 1.0 after three matching keywords, rounded to two
// decimal places.
func confidence(matches int) float64 {
	c := math.Min(1.0, float64(matches)/3.0)
	return math.Round(c*100) / 100
}
