package log

// ErrorCategory defines the category of an error which occurred during execution
type ErrorCategory int

const (
	ErrorUndefined ErrorCategory = iota
	ErrorBuild
	ErrorConfiguration
	ErrorInfrastructure
	ErrorService
)

var errorCategory = ErrorUndefined

func (e ErrorCategory) String() string {
	return [...]string{
		"undefined",
		"build",
		"configuration",
		"infrastructure",
		"service",
	}[e]
}

// SetErrorCategory sets the error category.
// It is used when exiting the program with a fatal error and by the
// registered log hooks to classify the failure.
func SetErrorCategory(category ErrorCategory) {
	errorCategory = category
}

// GetErrorCategory retrieves the currently known error category.
func GetErrorCategory() ErrorCategory {
	return errorCategory
}

// ErrorCategoryByString returns the error category which matches the given
// string, ErrorUndefined in case no category matches.
func ErrorCategoryByString(category string) ErrorCategory {
	for _, c := range []ErrorCategory{ErrorBuild, ErrorConfiguration, ErrorInfrastructure, ErrorService} {
		if c.String() == category {
			return c
		}
	}
	return ErrorUndefined
}
