package log

import (
	"os"
	"testing"
)

// Fatal and Fatalf call Exit; keep the test binary alive.
func TestMain(m *testing.M) {
	exit := Exit
	Exit = func(int) {}
	code := m.Run()
	Exit = exit
	os.Exit(code)
}
