package image

import "errors"

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrImageMismatch    = errors.New("image belongs to a different property")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType  = errors.New("file type is not allowed")
	ErrEmptyFile        = errors.New("file is empty")
	ErrTooManyImages    = errors.New("property already has the maximum number of images")
)
