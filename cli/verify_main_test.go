package cli

import (
	"testing"

	"go.uber.org/goleak"

	"go.viam.com/detectd/testutils"
)

// TestMain is used to control the execution of all tests run within this package (including _test packages).
func TestMain(m *testing.M) {
	testutils.VerifyTestMain(m, testutils.WithLeakOpt(goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun")))
}
