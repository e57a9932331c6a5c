package services

import "errors"

// User-facing failure categories. Underlying storage and provider errors
// are logged with full detail and never leave the service layer.
var (
	// ErrAlreadyExists means the username or email is taken. Which one is
	// deliberately not said.
	ErrAlreadyExists = errors.New("username or email already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so the endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrRegistrationFailed is the generic outcome for storage failures
	// during registration.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrLoginFailed is the generic outcome for storage failures during
	// login.
	ErrLoginFailed = errors.New("login failed")

	// ErrUpdateFailed is the generic outcome for storage failures while
	// updating account settings.
	ErrUpdateFailed = errors.New("update failed")

	// ErrCompletionUnavailable means the completion provider is not
	// configured or the call failed; the user should try again later.
	ErrCompletionUnavailable = errors.New("could not process the request, please try again later")

	// ErrEmptyTask rejects a decomposition request with no task text.
	ErrEmptyTask = errors.New("task description is required")
)
