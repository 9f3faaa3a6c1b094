package mydropbox

import "errors"

var (
	// ErrEmptyOwner is returned when an operation needs an owner and none was given
	ErrEmptyOwner = errors.New("owner cannot be empty")
	// ErrEmptyUsername is returned when an account operation has no username
	ErrEmptyUsername = errors.New("username cannot be empty")
	// ErrPasswordMismatch is returned when a password and its confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrFileNotFound is returned when the gateway has no retrieval location for a file
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFileName is returned when a file name is not a single safe path segment
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrReadFile is returned when a local file cannot be opened or read
	ErrReadFile = errors.New("read local file")
	// ErrNotLoggedIn is returned when an operation requires an authenticated session
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnexpectedStatus is returned when the gateway answers with a success status other than 200
	ErrUnexpectedStatus = errors.New("unexpected status")
)
