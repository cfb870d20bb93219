package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrLoadFailed      = errors.New("workbook load failed")
	ErrMissingIDColumn = errors.New("projects sheet is missing a project identifier column")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotApproved     = errors.New("account is not approved")
)
