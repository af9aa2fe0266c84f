package backend

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/fatwa/pkg/locale"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string      `json:"question"`
	Provider *string     `json:"provider"` // null lets the server choose
	Language locale.Lang `json:"language"`
}

// Source is one reference attached to an answer.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UnmarshalJSON accepts either an object or a bare URL string.
func (s *Source) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*s = Source{Title: url, URL: url}
		return nil
	}
	type plain Source
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Source(p)
	return nil
}

// AskResponse is a successful answer.
type AskResponse struct {
	Answer   string      `json:"answer"`
	Sources  []Source    `json:"sources"`
	Language locale.Lang `json:"language"`
	History  *History    `json:"history,omitempty"`
}

// History is the server's view of the conversation so far.
type History struct {
	Messages      []HistoryMessage `json:"messages"`
	TotalMessages int              `json:"total_messages"`
	HasPrevious   bool             `json:"has_previous"`
}

// HistoryMessage is one remembered turn.
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// timestampLayouts covers ISO timestamps with and without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Time parses Timestamp. Zone-less timestamps are read as local time.
func (m HistoryMessage) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, m.Timestamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SourceOption is a provider the user can pick.
type SourceOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourceCatalog lists providers per language.
type SourceCatalog map[locale.Lang][]SourceOption

// For returns the providers for l, or nil.
func (c SourceCatalog) For(l locale.Lang) []SourceOption {
	return c[l]
}

// Translations maps UI keys to strings.
type Translations map[string]string

type clearHistoryRequest struct {
	Language locale.Lang `json:"language"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorBody is the shape shared by every error response.
type errorBody struct {
	Error string `json:"error"`
}
