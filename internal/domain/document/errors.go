package document

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrNotPDF           = errors.New("only PDF files are allowed")
	ErrEmptyFile        = errors.New("file is empty")
)
