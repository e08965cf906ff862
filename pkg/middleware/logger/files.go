package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultDir is used when no log directory is configured.
const DefaultDir = "log"

func ensureLogDir(dir string) string {
	if dir == "" {
		dir = DefaultDir
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog tees JSON lines to <DefaultDir>/<n> and stdout.
func NewLog(n string) *zap.Logger { return NewLogIn(DefaultDir, n) }

// NewLogIn is NewLog rooted at dir.
func NewLogIn(dir, n string) *zap.Logger {
	dir = ensureLogDir(dir)

	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey

	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, n),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, zap.InfoLevel),
	)
	return zap.New(core)
}

// Loggers are the process log files.
type Loggers struct {
	System *zap.Logger // system.log
	Access *zap.Logger // http-access.log
	Error  *zap.Logger // error.log
}

// Open creates the three process loggers under dir.
func Open(dir string) Loggers {
	return Loggers{
		System: NewLogIn(dir, "system.log"),
		Access: NewLogIn(dir, "http-access.log"),
		Error:  NewLogIn(dir, "error.log"),
	}
}

func (l Loggers) Sync() {
	for _, z := range []*zap.Logger{l.System, l.Access, l.Error} {
		if z != nil {
			_ = z.Sync()
		}
	}
}
