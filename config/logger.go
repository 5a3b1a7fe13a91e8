package config

import (
	"os"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger builds a logrus logger writing to stderr.
func NewLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "log level: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "unknown log format %q", format)
	}

	return logger, nil
}
