package errlevel

import (
	"fmt"

	"go.uber.org/zap"
)

// Report classifies c and, unless it is suppressed, forwards its debug
// representation to log at the matching level. Trace maps to zap's
// Debug: zap defines no trace level.
func Report(log *zap.Logger, c Classifier) {
	lvl, ok := c.ErrorLevel()
	if !ok {
		return
	}
	msg := fmt.Sprintf("%+v", c)
	switch lvl {
	case Trace, Debug:
		log.Debug(msg)
	case Info:
		log.Info(msg)
	case Warn:
		log.Warn(msg)
	case Error:
		log.Error(msg)
	}
}
