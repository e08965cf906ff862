package logger

import "go.uber.org/zap"

// New returns the access-log middleware writing to access. A nil logger
// discards entries.
func New(access *zap.Logger) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{access: access}
}
