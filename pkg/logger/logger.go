package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development gets human-readable console
// output, anything else gets production JSON. The logger is also installed
// as the zap global so low-level packages can report without plumbing.
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
