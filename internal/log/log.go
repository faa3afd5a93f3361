// Package log owns the process-wide zap logger. Commands call Init once at
// startup and hand GetSugaredLogger to the packages that take an injected
// logger; the package-level helpers exist for the thin slice of code that
// runs before or outside that wiring.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the process logger. Debug mode uses zap's development config
// (console encoding, debug level); otherwise the production JSON config.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("building zap logger: %w", err)
	}
	sugar = logger.Sugar()
	return nil
}

// GetSugaredLogger returns the process logger, building a production logger
// on the spot if Init was never called.
func GetSugaredLogger() *zap.SugaredLogger {
	if sugar == nil {
		logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
		sugar = logger.Sugar()
	}
	return sugar
}

// Sync flushes buffered entries; call it on the way out of main.
func Sync() {
	if sugar != nil {
		sugar.Sync()
	}
}

func Errorf(template string, args ...interface{}) {
	GetSugaredLogger().Errorf(template, args...)
}
