package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the sugared zap logger used across the services.
//
// Loggers should be injected and Named per component: e.g. lggr.Named("credentials").
// Tests should use zaptest.NewLogger(t).Sugar() or zap.NewNop().Sugar().
type Logger = zap.SugaredLogger

// New returns a production Logger at the given level ("debug", "info", "warn", "error").
func New(level string) (*Logger, error) {
	return NewWith(func(cfg *zap.Config) {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			lvl = zapcore.InfoLevel
		}
		cfg.Level.SetLevel(lvl)
	})
}

// NewWith returns a new Logger from a modified [zap.Config].
func NewWith(cfgFn func(*zap.Config)) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfgFn(&cfg)

	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return core.Sugar(), nil
}

// GinLogger logs one line per request and tags it with a request id.
func GinLogger(lggr *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			lggr.Errorw("request failed", append(fields, "errors", c.Errors.String())...)
			return
		}
		lggr.Infow("request", fields...)
	}
}
