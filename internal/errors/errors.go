package errors

import "fmt"

// ErrorType is the failure category, used to pick how a failure is reported
type ErrorType int

const (
	// ErrorTypeConfig - missing or invalid environment
	ErrorTypeConfig ErrorType = iota
	// ErrorTypeValidation - data that breaks an action invariant
	ErrorTypeValidation
	// ErrorTypeNetwork - GitHub or Redis unreachable or rejecting requests
	ErrorTypeNetwork
	// ErrorTypeFileSystem - local cache file I/O
	ErrorTypeFileSystem
	// ErrorTypeExternal - the warehouse rejected a request
	ErrorTypeExternal
	// ErrorTypeInternal - unexpected internal state
	ErrorTypeInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error is a categorized error carrying structured log fields
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a field that is logged alongside the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is matches errors of the same type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newf(errType ErrorType, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ConfigErrorf creates a configuration error
func ConfigErrorf(format string, args ...interface{}) *Error {
	return newf(ErrorTypeConfig, nil, format, args...)
}

// ValidationErrorf creates a validation error
func ValidationErrorf(format string, args ...interface{}) *Error {
	return newf(ErrorTypeValidation, nil, format, args...)
}

// InternalErrorf creates an internal error
func InternalErrorf(format string, args ...interface{}) *Error {
	return newf(ErrorTypeInternal, nil, format, args...)
}

// NetworkErrorf wraps a network error
func NetworkErrorf(err error, format string, args ...interface{}) *Error {
	return newf(ErrorTypeNetwork, err, format, args...)
}

// FileSystemErrorf wraps a filesystem error
func FileSystemErrorf(err error, format string, args ...interface{}) *Error {
	return newf(ErrorTypeFileSystem, err, format, args...)
}

// ExternalErrorf wraps an error returned by an external service
func ExternalErrorf(err error, format string, args ...interface{}) *Error {
	return newf(ErrorTypeExternal, err, format, args...)
}

// GetType returns the type of an error, ErrorTypeInternal when untyped
func GetType(err error) ErrorType {
	var e *Error
	if As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// Fields returns the context of the outermost typed error plus its type,
// ready to be passed to logrus WithFields. Untyped errors yield nil.
func Fields(err error) map[string]interface{} {
	var e *Error
	if !As(err, &e) {
		return nil
	}
	fields := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		fields[k] = v
	}
	fields["error_type"] = e.Type.String()
	return fields
}
