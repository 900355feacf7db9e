// Package logger builds *slog.Logger values from functional options and
// provides attribute constructors with consistent keys.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler by Format, attaches
// static attributes, and, when WithContextValue is used, wraps the handler so
// values stored in a context.Context are added to every record written with
// a *Context method.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithContextValue("run_id", runIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "scenario finished",
//	    logger.Scenario("fast"),
//	    logger.NsPerOp(42),
//	)
//
// ParseLevel and ParseFormat turn configuration strings into option values
// and report invalid input as errors; WithFormat itself panics on an unknown
// format.
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("raised", logger.Error(err))
//
// needs no nil check.
package logger
