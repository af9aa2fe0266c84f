package errors

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQuestionLength is the longest question, in runes, accepted by
// ValidateQuestion.
const MaxQuestionLength = 4000

// ValidateQuestion checks a trimmed user question before it is sent to the
// backend.
//
// The rules:
//   - Not empty after trimming whitespace
//   - At most MaxQuestionLength runes
//   - No control characters other than newline and tab
//   - Valid UTF-8
func ValidateQuestion(question string) error {
	q := strings.TrimSpace(question)
	if q == "" {
		return New(ErrCodeInvalidInput, "question cannot be empty")
	}
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidInput, "question is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(q); n > MaxQuestionLength {
		return New(ErrCodeInvalidInput, "question too long (%d characters, max %d)", n, MaxQuestionLength)
	}
	for _, r := range q {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "question contains invalid control characters")
		}
	}
	return nil
}

// ValidateServerURL checks the backend base URL. Only http and https URLs
// with a host are accepted; query strings and fragments are rejected because
// endpoint paths are appended to the URL.
func ValidateServerURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "server URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid server URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "server URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "server URL must include a host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return New(ErrCodeInvalidURL, "server URL cannot contain a query or fragment")
	}
	return nil
}
