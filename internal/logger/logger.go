package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

type Config struct {
	Level       string // trace, debug, info, warn, error
	Format      string // json, text
	ServiceName string
}

// Init configures the standard logrus logger. It may be called more than
// once; hooks from an earlier call are replaced.
func Init(cfg Config) {
	InitWithOutput(cfg, os.Stdout)
}

func InitWithOutput(cfg Config, out io.Writer) {
	log := logrus.StandardLogger()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	hooks := make(logrus.LevelHooks)
	hooks.Add(&DefaultFieldsHook{ServiceName: cfg.ServiceName})
	log.ReplaceHooks(hooks)
}

type DefaultFieldsHook struct {
	ServiceName string
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	if hook.ServiceName != "" {
		e.Data["service"] = hook.ServiceName
	}

	return nil
}

// WithFields returns a context whose logger carries fields on top of the
// ones already attached to ctx.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(ctx, ctxKey{}, FromContext(ctx).WithFields(fields))
}

func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}

	return logrus.NewEntry(logrus.StandardLogger())
}
