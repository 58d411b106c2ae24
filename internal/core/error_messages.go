package core

// error_messages.go maps errors to user-facing messages with support codes.
//
// Codes by category:
//
//	VAL001  invalid date (field and raw value quoted)
//	VAL002  malformed record identifier
//	VAL003  required field empty
//	VAL004  unknown unit in a submitted record
//	VAL005  unsupported value type
//	VAL000  other validation failure
//
//	REC001  record not found (also returned for records of another unit)
//
//	UNIT001 unit not configured
//	UNIT002 malformed unit identifier
//
//	RPT001  sheet mixes expert panel and bureau records
//	RPT002  workbook could not be built
//
//	EXP001  too many exports running
//
//	DB001-DB005  database connectivity and contention
//	REQ001-REQ002 request cancelled or timed out
//	RATE001 too many requests
//
//	ERR000  anything else; check the logs for the technical error
//
// Typed errors are matched first with errors.Is/As. Anything left is matched
// case-insensitively against message patterns; the first pattern wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/report"
	"github.com/JonMunkholm/mseboard/internal/unit"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "Record not found",
		Action:  "Refresh the list; the record may have been deleted",
		Code:    "REC001",
	}
	msgUnknownUnit = UserMessage{
		Message: "Unit is not configured",
		Action:  "Check the bureau or expert panel number",
		Code:    "UNIT001",
	}
	msgMalformedUnit = UserMessage{
		Message: "Malformed unit identifier",
		Action:  "Use omo, bureau_<n> or expert_<n>",
		Code:    "UNIT002",
	}
	msgMixedKinds = UserMessage{
		Message: "Report sheet mixes expert panel and bureau records",
		Action:  "Export a single unit or the full report",
		Code:    "RPT001",
	}
	msgTooManyExports = UserMessage{
		Message: "System is busy building other reports",
		Action:  "Please wait a moment and try again",
		Code:    "EXP001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to messages.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "Record violates a database rule",
			Action:  "Check the examination date and unit",
			Code:    "DB004",
		},
	},
	{
		pattern: "assemble",
		msg: UserMessage{
			Message: "Report could not be built",
			Action:  "Please try again or contact support",
			Code:    "RPT002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Narrow the search or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
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

	var ve *record.ValidationError
	switch {
	case errors.As(err, &ve):
		return validationMessage(ve)
	case errors.Is(err, record.ErrNotFound):
		return msgNotFound
	case errors.Is(err, ErrUnknownUnit):
		return msgUnknownUnit
	case errors.Is(err, unit.ErrMalformed):
		return msgMalformedUnit
	case errors.Is(err, report.ErrMixedUnitKinds):
		return msgMixedKinds
	case errors.Is(err, ErrTooManyExports):
		return msgTooManyExports
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func validationMessage(ve *record.ValidationError) UserMessage {
	field := ve.Field
	if field == "" {
		field = "record"
	}

	switch msg := strings.ToLower(ve.Message); {
	case strings.Contains(msg, "invalid date"):
		return UserMessage{
			Message: fmt.Sprintf("Invalid date %q in %s", ve.Value, field),
			Action:  "Use YYYY-MM-DD, DD.MM.YYYY or MM/DD/YYYY",
			Code:    "VAL001",
		}
	case strings.Contains(msg, "malformed identifier"):
		return UserMessage{
			Message: fmt.Sprintf("Malformed identifier %q", ve.Value),
			Action:  "Record identifiers are positive integers",
			Code:    "VAL002",
		}
	case strings.Contains(msg, "required field"):
		return UserMessage{
			Message: fmt.Sprintf("Required field %s is empty", field),
			Action:  "Fill in the field and save again",
			Code:    "VAL003",
		}
	case strings.Contains(msg, "unknown unit"):
		return UserMessage{
			Message: fmt.Sprintf("Unknown unit %q", ve.Value),
			Action:  "Check the bureau or expert panel number",
			Code:    "VAL004",
		}
	case strings.Contains(msg, "unsupported"):
		return UserMessage{
			Message: fmt.Sprintf("Unsupported value in %s", field),
			Action:  "Send text, a number or a list of codes",
			Code:    "VAL005",
		}
	default:
		return UserMessage{
			Message: ve.Error(),
			Action:  "Correct the record and save again",
			Code:    "VAL000",
		}
	}
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
