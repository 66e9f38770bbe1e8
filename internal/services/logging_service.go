// Package services – LoggingService
//
// LoggingService is the uniform error sink. Report writes one structured line
// to the caller's logger and appends one LogEntry row. Reporting never fails:
// a persistence error is logged and swallowed so it cannot mask the failure
// being reported.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/repo"
)

// ReadPolicy decides what a read path does when the store fails.
type ReadPolicy int

const (
	// ReadFailuresDegrade reports the failure and returns an empty result.
	ReadFailuresDegrade ReadPolicy = iota
	// ReadFailuresPropagate reports the failure and returns it to the caller.
	ReadFailuresPropagate
)

// LoggingService records failures to the console and the log store.
type LoggingService struct {
	DB *gorm.DB

	// ReadPolicy applies to ListAll. The zero value degrades.
	ReadPolicy ReadPolicy
}

// NewLoggingService returns a LoggingService that degrades read failures.
func NewLoggingService(db *gorm.DB) *LoggingService {
	return &LoggingService{DB: db, ReadPolicy: ReadFailuresDegrade}
}

// Report logs at error level and appends one LogEntry.
func (s *LoggingService) Report(ctx context.Context, lg *zerolog.Logger, service, label, message string) {
	s.report(ctx, lg, zerolog.ErrorLevel, service, label, message)
}

// ReportWarn is Report for non-alarming conditions such as a lookup that
// found nothing: the row is still written but the console line is a warning.
func (s *LoggingService) ReportWarn(ctx context.Context, lg *zerolog.Logger, service, label, message string) {
	s.report(ctx, lg, zerolog.WarnLevel, service, label, message)
}

func (s *LoggingService) report(ctx context.Context, lg *zerolog.Logger, level zerolog.Level, service, label, message string) {
	service = orDefault(service, placeholderService)
	label = orDefault(label, placeholderLabel)
	message = orDefault(message, placeholderMessage)

	if lg == nil {
		lg = ctxLogger(ctx)
	}
	lg.WithLevel(level).
		Str("origin", service).
		Str("error", label).
		Msg(message)

	if s == nil || s.DB == nil {
		logEntries.WithLabelValues(service, "false").Inc()
		return
	}

	tr := otel.Tracer("services/LoggingService")
	ctx, span := tr.Start(ctx, "Report", trace.WithAttributes(attribute.String("log.service", service)))
	defer span.End()

	if _, err := repo.CreateLogEntry(ctx, s.DB, service, label, message); err != nil {
		span.RecordError(err)
		lg.Error().
			Err(err).
			Str("origin", serviceLogging).
			Msg(LabelCreateLogEntry)
		logEntries.WithLabelValues(service, "false").Inc()
		return
	}
	logEntries.WithLabelValues(service, "true").Inc()
}

// ListAll returns every LogEntry in id order. Under ReadFailuresDegrade a
// store failure is logged and an empty, non-nil slice is returned with a nil
// error; under ReadFailuresPropagate the error is returned.
func (s *LoggingService) ListAll(ctx context.Context) ([]domain.LogEntry, error) {
	tr := otel.Tracer("services/LoggingService")
	ctx, span := tr.Start(ctx, "ListAll")
	defer span.End()

	out, err := repo.ListLogEntries(ctx, s.DB)
	if err != nil {
		span.RecordError(err)
		ctxLogger(ctx).Error().Err(err).Str("origin", serviceLogging).Msg(LabelListLogEntries)
		if s.ReadPolicy == ReadFailuresPropagate {
			return nil, err
		}
		return []domain.LogEntry{}, nil
	}
	if out == nil {
		out = []domain.LogEntry{}
	}
	return out, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// ctxLogger returns the request logger carried by ctx, or the global logger.
func ctxLogger(ctx context.Context) *zerolog.Logger {
	if lg := log.Ctx(ctx); lg.GetLevel() != zerolog.Disabled {
		return lg
	}
	return &log.Logger
}
