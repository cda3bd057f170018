package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStorage marks a failure of the persistence layer.
	ErrStorage = errors.New("storage error")
	// ErrPermissionDenied marks a failed ownership or permission check.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrGuildOnly is returned when a guild-only command is used outside a guild.
	ErrGuildOnly = fmt.Errorf("%w: this command can only be used in a guild", ErrPermissionDenied)
	// ErrValidation marks input rejected before any side effect.
	ErrValidation = errors.New("validation error")
	// ErrExternalAPI marks a failed platform call.
	ErrExternalAPI = errors.New("external api error")
)

// UserMessage returns the text shown to the invoker of a failed command.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrGuildOnly):
		return "This command can only be used in a guild."
	case errors.Is(err, ErrPermissionDenied):
		return trimKind(err, ErrPermissionDenied, "You do not have permission to use this command.")
	case errors.Is(err, ErrValidation):
		return trimKind(err, ErrValidation, "Invalid arguments.")
	case errors.Is(err, ErrStorage):
		return "Something went wrong while talking to the database. Please try again later."
	case errors.Is(err, ErrExternalAPI):
		return "Discord rejected the request: " + err.Error()
	default:
		return "An unexpected error occurred."
	}
}

// trimKind strips the "<kind>: " prefix added when wrapping so only the detail is shown.
func trimKind(err, kind error, fallback string) string {
	msg := err.Error()
	if msg == kind.Error() {
		return fallback
	}
	if idx := strings.LastIndex(msg, kind.Error()+": "); idx >= 0 {
		return upperFirst(msg[idx+len(kind.Error())+2:])
	}
	return upperFirst(msg)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
