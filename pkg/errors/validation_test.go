package errors

import (
	"strings"
	"testing"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "What is zakat?", false},
		{"arabic", "ما حكم صيام يوم الجمعة؟", false},
		{"multiline", "first line\nsecond line", false},
		{"tab", "a\tb", false},
		{"empty", "", true},
		{"blank", "   \n ", true},
		{"control", "abc\x07def", true},
		{"null byte", "abc\x00", true},
		{"invalid utf8", "abc\xffdef", true},
		{"max length", strings.Repeat("a", MaxQuestionLength), false},
		{"too long", strings.Repeat("ب", MaxQuestionLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateQuestion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://localhost:5001", false},
		{"https with path", "https://fatwa.example.com/api", false},
		{"empty", "", true},
		{"no scheme", "localhost:5001", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "http://", true},
		{"query", "http://example.com?x=1", true},
		{"fragment", "http://example.com#top", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServerURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateServerURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidURL) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidURL)
			}
		})
	}
}
