package logging

import "go.uber.org/zap"

// ZapLogger adapts a zap logger to Logger. Error values are logged as named
// error fields.
type ZapLogger struct{ L *zap.Logger }

// Debug logs at debug level.
func (z ZapLogger) Debug(msg string, f Fields) { z.L.Debug(msg, zf(f)...) }

// Info logs at info level.
func (z ZapLogger) Info(msg string, f Fields) { z.L.Info(msg, zf(f)...) }

// Warn logs at warn level.
func (z ZapLogger) Warn(msg string, f Fields) { z.L.Warn(msg, zf(f)...) }

// Error logs at error level.
func (z ZapLogger) Error(msg string, f Fields) { z.L.Error(msg, zf(f)...) }

func zf(f Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
