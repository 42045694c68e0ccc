package errors

import "fmt"

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SeedeeError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid wraps a configuration file that could not be read or parsed.
func ConfigInvalid(reason string, err error) *SeedeeError {
	return Wrap(err, ErrCodeConfigInvalid, reason)
}

// MissingParameter reports a required value an action was never given.
func MissingParameter(action, field string) *SeedeeError {
	return New(ErrCodeMissingParameter, fmt.Sprintf("%s: missing %s", action, field)).
		WithDetail("action", action).
		WithDetail("field", field)
}

// MissingBuildSetting reports a build setting xcodebuild did not print.
func MissingBuildSetting(key string) *SeedeeError {
	return New(ErrCodeMissingParameter,
		fmt.Sprintf("xcodebuild did not return a value for build setting %s", key)).
		WithDetail("field", key)
}

// FileOperation wraps a failed file-system operation.
func FileOperation(op, path string, err error) *SeedeeError {
	return Wrap(err, ErrCodeFileOperation, fmt.Sprintf("failed to %s %s", op, path)).
		WithDetail("operation", op).
		WithDetail("path", path)
}

// CleanupFailed wraps an error returned from an action's CleanUp.
func CleanupFailed(action string, err error) *SeedeeError {
	return Wrap(err, ErrCodeCleanupFailed, fmt.Sprintf("clean up of %s failed", action)).
		WithDetail("action", action)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *SeedeeError {
	return New(ErrCodeInvalidInput, reason)
}

// ProfileInvalid reports a provisioning profile that could not be decoded.
func ProfileInvalid(path string, err error) *SeedeeError {
	return Wrap(err, ErrCodeProfileInvalid, "failed to decode provisioning profile").
		WithDetail("path", path)
}
