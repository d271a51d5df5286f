// Package core provides the business logic for converting trade documents.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Document Type Errors (DOC001-DOC099)
//
//	DOC001 - Unknown document type: The document type is not configured
//	         Action: Choose one of the listed document types
//	         Sentinel: ErrUnknownDocumentType
//
//	DOC002 - Ambiguous document: The document type could not be determined
//	         Action: Select the document type manually and convert again
//	         Sentinel: ErrAmbiguousDocumentType
//
//	DOC003 - Format not allowed: The requested output format is not available
//	         Action: Use the default output format for this document type
//	         Sentinel: ErrFormatNotAllowed
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported format: Only .xlsx, .csv and .txt files are accepted
//	          Sentinel: ErrUnsupportedFormat
//
//	FILE003 - Unreadable file: The file structure could not be read
//	          Sentinel: ErrParse
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Sentinel: ErrEmptyFile
//
// # Conversion Errors (CONV001-CONV099)
//
//	CONV001 - System busy: Too many conversions in progress
//	          Sentinel: ErrTooManyConversions
//
//	CONV002 - Request cancelled
//	          Patterns: "context canceled"
//
//	CONV003 - Request timeout
//	          Patterns: "context deadline exceeded"
//
// # Job Errors (JOB001-JOB099)
//
//	JOB001 - Job not found
//	         Patterns: "job not found"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Sentinel errors are matched with errors.Is first. Remaining errors are
// matched case-insensitively by substring; the first matching pattern wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{
		err: ErrUnknownDocumentType,
		msg: UserMessage{
			Message: "Unknown document type",
			Action:  "Choose one of the listed document types",
			Code:    "DOC001",
		},
	},
	{
		err: ErrAmbiguousDocumentType,
		msg: UserMessage{
			Message: "The document type could not be determined",
			Action:  "Select the document type manually and convert again",
			Code:    "DOC002",
		},
	},
	{
		err: ErrFormatNotAllowed,
		msg: UserMessage{
			Message: "The requested output format is not available for this document type",
			Action:  "Use the default output format for this document type",
			Code:    "DOC003",
		},
	},
	{
		err: ErrUnsupportedFormat,
		msg: UserMessage{
			Message: "Unsupported file format",
			Action:  "Upload an .xlsx, .csv or fixed-width .txt file",
			Code:    "FILE002",
		},
	},
	{
		err: ErrParse,
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file is not corrupted and re-save it from the source application",
			Code:    "FILE003",
		},
	},
	{
		err: ErrEmptyFile,
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with data rows",
			Code:    "FILE005",
		},
	},
	{
		err: ErrTooManyConversions,
		msg: UserMessage{
			Message: "Too many conversions in progress",
			Action:  "Please wait a moment and try again",
			Code:    "CONV001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that do not wrap a core sentinel, such as
// those from the HTTP layer or the job store.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller documents",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to convert",
			Code:    "FILE004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "CONV002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "CONV003",
		},
	},
	{
		pattern: "job not found",
		msg: UserMessage{
			Message: "Conversion job not found",
			Action:  "Check the job id or start a new conversion",
			Code:    "JOB001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check application logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
