package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateReceipt    = errors.New("a receipt already exists for this student and period")
	ErrInvalidPeriod       = errors.New("period month or year out of range")
	ErrReceiptNotAnalyzed  = errors.New("receipt has not been analyzed yet")
	ErrAlreadyReviewed     = errors.New("receipt review decision already recorded")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
