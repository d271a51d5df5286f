package core

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownDocumentType is returned when a type key or prefix is not registered.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrAmbiguousDocumentType is returned when detection cannot pick a type.
	// Callers recover by converting again with an explicit type.
	ErrAmbiguousDocumentType = errors.New("document type could not be determined")

	// ErrFormatNotAllowed is returned when the requested output format is not
	// allowed for the document type.
	ErrFormatNotAllowed = errors.New("output format not allowed for document type")

	// ErrParse wraps structural read failures such as a corrupt workbook.
	ErrParse = errors.New("could not read file")

	// ErrEmptyFile is returned for zero-byte input.
	ErrEmptyFile = errors.New("empty file")
)
