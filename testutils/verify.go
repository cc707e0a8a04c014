// Package testutils holds helpers shared by detectd's package tests.
package testutils

import (
	"go.uber.org/goleak"
)

// VerifyOption adjusts the leak check run by VerifyTestMain.
type VerifyOption func(*[]goleak.Option)

// WithLeakOpt adds a goleak option, usually an ignore rule for a goroutine a dependency
// leaves running on purpose.
func WithLeakOpt(opt goleak.Option) VerifyOption {
	return func(opts *[]goleak.Option) {
		*opts = append(*opts, opt)
	}
}

// VerifyTestMain runs the package's tests and then fails if any goroutine is still running.
func VerifyTestMain(m goleak.TestingM, opts ...VerifyOption) {
	leakOpts := []goleak.Option{
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreTopFunction("github.com/desertbit/timer.timerRoutine"), // grpc uses this
	}
	for _, opt := range opts {
		opt(&leakOpts)
	}
	goleak.VerifyTestMain(m, leakOpts...)
}
