// Package backendtest runs an in-process fake of the fatwa backend for
// tests. It serves the same four endpoints with the same JSON shapes and
// lets a test script answers and failures.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/locale"
)

// Route names accepted by Fail and Hits.
const (
	RouteAsk          = "/ask"
	RouteTranslations = "/translations"
	RouteSources      = "/sources"
	RouteClearHistory = "/clear-history"
)

// DefaultTranslations mirrors what the real server returns.
var DefaultTranslations = map[locale.Lang]backend.Translations{
	locale.English: {
		"placeholder":       "Type your question here...",
		"thinking":          "Thinking",
		"title":             "Fatwa",
		"sources_title":     "Sources",
		"error_no_question": "No question provided",
		"error_internal":    "Internal server error",
		"history_cleared":   "Conversation history cleared",
	},
	locale.Arabic: {
		"placeholder":       "اكتب سؤالك هنا...",
		"thinking":          "جارٍ التفكير",
		"title":             "فتوى",
		"sources_title":     "المصادر",
		"error_no_question": "لم يتم إدخال سؤال",
		"error_internal":    "خطأ في النظام",
		"history_cleared":   "تم مسح سجل المحادثة",
	},
}

// DefaultSources mirrors the real server's provider list.
var DefaultSources = backend.SourceCatalog{
	locale.English: {{ID: "dar-al-iftaa-en", Name: "Egypt's Dar Al Iftaa"}},
	locale.Arabic:  {{ID: "dar-al-iftaa-ar", Name: "دار الإفتاء المصرية"}},
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	URL string

	srv *httptest.Server

	mu       sync.Mutex
	answer   string
	sources  []backend.Source
	delay    time.Duration
	failures map[string]failure
	hits     map[string]int
	asked    []backend.AskRequest
	history  []backend.HistoryMessage
}

// New starts a server and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		answer:   "Answer: Yes.",
		failures: make(map[string]failure),
		hits:     make(map[string]int),
	}
	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	t.Cleanup(s.Close)
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// SetAnswer sets the Markdown answer and sources returned by /ask.
func (s *Server) SetAnswer(answer string, sources ...backend.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer = answer
	s.sources = sources
}

// SetDelay makes /ask wait d before answering.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Fail makes route answer with status and, when message is non-empty, an
// {"error": message} body. A status of 0 clears the failure.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = failure{status: status, message: message}
}

// Hits returns how many requests route received.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Asked returns every /ask request body received so far.
func (s *Server) Asked() []backend.AskRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.AskRequest(nil), s.asked...)
}

// HistoryLen returns the number of remembered messages.
func (s *Server) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Post("/ask", s.handleAsk)
	r.Get("/translations/{lang}", s.handleTranslations)
	r.Get("/sources", s.handleSources)
	r.Post("/clear-history", s.handleClearHistory)
	return r
}

// count records the hit and short-circuits scripted failures.
func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if strings.HasPrefix(route, RouteTranslations+"/") {
			route = RouteTranslations
		}

		s.mu.Lock()
		s.hits[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeJSON(w, f.status, map[string]string{"error": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req backend.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": translation(locale.English, "error_internal")})
		return
	}
	lang := req.Language
	if !lang.Valid() {
		lang = locale.English
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": translation(lang, "error_no_question")})
		return
	}

	s.mu.Lock()
	s.asked = append(s.asked, req)
	answer, sources, delay := s.answer, s.sources, s.delay
	now := time.Now().Format("2006-01-02T15:04:05.000000")
	s.history = append(s.history,
		backend.HistoryMessage{Role: "user", Content: req.Question, Timestamp: now},
		backend.HistoryMessage{Role: "assistant", Content: answer, Timestamp: now},
	)
	history := backend.History{
		Messages:      append([]backend.HistoryMessage(nil), s.history...),
		TotalMessages: len(s.history),
		HasPrevious:   len(s.history) > 0,
	}
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if sources == nil {
		sources = []backend.Source{}
	}
	writeJSON(w, http.StatusOK, backend.AskResponse{
		Answer:   answer,
		Sources:  sources,
		Language: lang,
		History:  &history,
	})
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := locale.Lang(chi.URLParam(r, "lang"))
	if !lang.Valid() {
		lang = locale.English
	}
	writeJSON(w, http.StatusOK, DefaultTranslations[lang])
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DefaultSources)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language locale.Lang `json:"language"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	lang := req.Language
	if !lang.Valid() {
		lang = locale.English
	}

	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": translation(lang, "history_cleared")})
}

func translation(lang locale.Lang, key string) string {
	return DefaultTranslations[lang][key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
