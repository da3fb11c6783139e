package observability

import (
	"time"

	"github.com/rs/zerolog"
	otellog "go.opentelemetry.io/otel/log"
)

// otelLogHook copies every zerolog event into an OpenTelemetry logger so
// logs reach the collector next to traces and metrics
type otelLogHook struct {
	logger otellog.Logger
}

// NewOTelLogHook returns a zerolog hook that emits to logger
func NewOTelLogHook(logger otellog.Logger) zerolog.Hook {
	return otelLogHook{logger: logger}
}

func (h otelLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.Disabled {
		return
	}

	now := time.Now()
	var record otellog.Record
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(severityFor(level))
	record.SetSeverityText(level.String())
	record.SetBody(otellog.StringValue(msg))

	h.logger.Emit(e.GetCtx(), record)
}

func severityFor(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.InfoLevel:
		return otellog.SeverityInfo
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel:
		return otellog.SeverityFatal
	case zerolog.PanicLevel:
		return otellog.SeverityFatal4
	default:
		return otellog.SeverityUndefined
	}
}
