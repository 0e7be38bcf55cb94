// Package errlevel is the runtime half of the errlevel generator:
// the severity vocabulary shared by generated unions and the report
// helper that forwards classified values to a logging sink.
package errlevel

// Level is the reporting urgency of a classified value. The zero value
// means "unclassified" and is what generated dispatch returns together
// with false for suppressed variants.
type Level int8

const (
	Trace Level = iota + 1
	Debug
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "trace"
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unclassified"
}
