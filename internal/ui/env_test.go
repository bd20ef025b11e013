package ui

import (
	"os"
	"testing"
)

// unsetNoColor removes NO_COLOR for the rest of the test.
func unsetNoColor(t *testing.T) {
	t.Helper()
	value, had := os.LookupEnv("NO_COLOR")
	os.Unsetenv("NO_COLOR")
	t.Cleanup(func() {
		if had {
			os.Setenv("NO_COLOR", value)
		}
	})
}
