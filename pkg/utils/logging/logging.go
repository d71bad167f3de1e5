package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// InitLogger builds the application logger for an environment. Production
// gets JSON output at info level; everything else gets the development
// console encoder with debug enabled.
func InitLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.With(zap.String("environment", env)), nil
}
