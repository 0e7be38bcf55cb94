package errlevel

// Classifier is implemented by every generated union and by any type
// meant to be a delegation target. The second return is false when the
// value should not be reported at all.
//
// Delegation chains through this interface at runtime: a union whose
// variant carries another union as payload propagates the inner
// classification unchanged, to any nesting depth.
type Classifier interface {
	ErrorLevel() (Level, bool)
}
