package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"default", "td!", false},
		{"exactly ten", "0123456789", false},
		{"ten runes multibyte", "日本語日本語日本語日", false},
		{"eleven", "01234567890", true},
		{"empty", "", true},
		{"blank", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrGuildOnly, "This command can only be used in a guild."},
		{ErrPermissionDenied, "You do not have permission to use this command."},
		{fmt.Errorf("%w: you need Administrator", ErrPermissionDenied), "You need Administrator"},
		{fmt.Errorf("%w: the prefix cannot be longer than 10 characters", ErrValidation), "The prefix cannot be longer than 10 characters"},
		{fmt.Errorf("set prefix: %w: disk I/O error", ErrStorage), "Something went wrong while talking to the database. Please try again later."},
		{errors.New("boom"), "An unexpected error occurred."},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
