// Package testutils holds small test assertion helpers shared across this
// module's package-level tests, for the handful of domain checks testify's
// generic assertions don't express directly.
package testutils

import (
	"testing"

	"github.com/drand/kyber"
	"golang.org/x/exp/slices"
)

// AssertPointsEqual checks that two curve points are equal. If not, it
// reports a test failure.
func AssertPointsEqual(t *testing.T, description string, expected, actual kyber.Point) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("unexpected %s\nexpected: %v\nactual:   %v\n", description, expected, actual)
	}
}

// AssertScalarsEqual checks that two scalars are equal. If not, it reports
// a test failure.
func AssertScalarsEqual(t *testing.T, description string, expected, actual kyber.Scalar) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("unexpected %s\nexpected: %v\nactual:   %v\n", description, expected, actual)
	}
}

// AssertKeyImagesUnique checks that no two key images in images repeat,
// which is what a verifier relies on to detect a double spend across
// inputs of the same transaction.
func AssertKeyImagesUnique(t *testing.T, images []kyber.Point) {
	t.Helper()
	for i, img := range images {
		rest := images[i+1:]
		if slices.ContainsFunc(rest, func(other kyber.Point) bool { return other.Equal(img) }) {
			t.Errorf("key image at position %d repeats later in the list", i)
		}
	}
}
