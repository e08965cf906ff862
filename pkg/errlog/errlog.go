// Package errlog holds the error sinks behind core.ErrorSink: the error.log
// file and a capped redis list for operators.
package errlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-gateway/pkg/core"
)

// Entry is one recorded failure.
type Entry struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Zap writes each record as an error line.
type Zap struct {
	log *zap.Logger
}

func NewZap(l *zap.Logger) *Zap {
	if l == nil {
		l = zap.NewNop()
	}
	return &Zap{log: l}
}

func (z *Zap) Record(_ context.Context, title, message string) {
	z.log.Error(title, zap.String("error", message))
}

// Multi fans a record out to every sink.
type Multi []core.ErrorSink

func (m Multi) Record(ctx context.Context, title, message string) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, title, message)
		}
	}
}
