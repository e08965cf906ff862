package core

import "context"

// ErrorTitle tags every catch-all failure recorded in the error sink.
const ErrorTitle = "API Gateway Error"

// ErrorSink receives out-of-band diagnostics. Record must not block the
// caller on delivery.
type ErrorSink interface {
	Record(ctx context.Context, title, message string)
}

type nopSink struct{}

func (nopSink) Record(context.Context, string, string) {}
