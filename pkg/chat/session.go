package chat

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/markdown"
	"github.com/matzehuels/fatwa/pkg/observability"
	"github.com/matzehuels/fatwa/pkg/translit"
	"github.com/matzehuels/fatwa/pkg/typewriter"
)

// Backend is the part of the backend client a session uses.
type Backend interface {
	Ask(ctx context.Context, req backend.AskRequest) (*backend.AskResponse, error)
	Translations(ctx context.Context, lang locale.Lang) (backend.Translations, error)
	Sources(ctx context.Context) (backend.SourceCatalog, error)
	ClearHistory(ctx context.Context, lang locale.Lang) (string, error)
}

// Config configures a Session. Backend is required.
type Config struct {
	Backend  Backend
	Renderer *typewriter.Renderer
	Markdown *markdown.Converter

	// Lang is the initial UI language; English when empty.
	Lang locale.Lang

	// Provider is the initial provider ID. An ID unknown for the current
	// language is replaced by the first available one.
	Provider string

	// Translit is enabled while the UI language is Arabic.
	Translit *translit.Field

	// OnChange is called after every visible change, from whichever
	// goroutine made it.
	OnChange func()
}

// Session is one conversation. All methods are safe for concurrent use.
type Session struct {
	backend  Backend
	renderer *typewriter.Renderer
	md       *markdown.Converter
	translit *translit.Field
	onChange func()

	mu       sync.Mutex
	state    State
	token    string
	lang     locale.Lang
	provider string
	catalog  locale.Catalog
	sources  backend.SourceCatalog
	messages []*Message
}

// New returns an Idle session.
func New(cfg Config) *Session {
	lang := cfg.Lang
	if !lang.Valid() {
		lang = locale.English
	}
	s := &Session{
		backend:  cfg.Backend,
		renderer: cfg.Renderer,
		md:       cfg.Markdown,
		translit: cfg.Translit,
		onChange: cfg.OnChange,
		lang:     lang,
		provider: cfg.Provider,
		catalog:  locale.Builtin(lang),
	}
	if s.renderer == nil {
		s.renderer = typewriter.NewRenderer(nil)
	}
	if s.md == nil {
		s.md = markdown.New()
	}
	if s.translit == nil {
		s.translit = &translit.Field{}
	}
	s.syncTranslit(lang)
	return s
}

// State returns the current submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether input is disabled.
func (s *Session) Busy() bool { return s.State() != Idle }

// Lang returns the UI language.
func (s *Session) Lang() locale.Lang {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Text returns the UI string for key in the current language.
func (s *Session) Text(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Text(key)
}

// Messages returns a snapshot of the conversation.
func (s *Session) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Empty reports whether the conversation has no messages yet, in which
// case views show the welcome text.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages) == 0
}

// LastQuestion returns the most recent user message, or "".
func (s *Session) LastQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleUser {
			return s.messages[i].Text
		}
	}
	return ""
}

// Translit returns the transliteration field bound to the input.
func (s *Session) Translit() *translit.Field { return s.translit }

// Providers returns the providers available in the current language.
func (s *Session) Providers() []backend.SourceOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sources.For(s.lang))
}

// Provider returns the selected provider ID, or "" for the server default.
func (s *Session) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// SetProvider selects a provider by ID. An empty ID selects the server
// default.
func (s *Session) SetProvider(id string) error {
	s.mu.Lock()
	if id != "" && !slices.ContainsFunc(s.sources.For(s.lang), func(o backend.SourceOption) bool { return o.ID == id }) {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidInput, "unknown provider %q", id)
	}
	s.provider = id
	s.mu.Unlock()
	s.notify()
	return nil
}

// CycleProvider selects the next provider of the current language and
// returns its ID.
func (s *Session) CycleProvider() string {
	s.mu.Lock()
	opts := s.sources.For(s.lang)
	if len(opts) > 0 {
		i := slices.IndexFunc(opts, func(o backend.SourceOption) bool { return o.ID == s.provider })
		s.provider = opts[(i+1)%len(opts)].ID
	}
	id := s.provider
	s.mu.Unlock()
	s.notify()
	return id
}

// Refresh fetches translations for the current language and the provider
// list. On failure the built-in strings stay in place and the error is
// returned for logging only.
func (s *Session) Refresh(ctx context.Context) error {
	lang := s.Lang()

	tr, trErr := s.backend.Translations(ctx, lang)
	src, srcErr := s.backend.Sources(ctx)

	s.mu.Lock()
	if trErr == nil && s.lang == lang {
		s.catalog = locale.Builtin(lang).Merge(tr)
	}
	if srcErr == nil && src != nil {
		s.sources = src
		s.ensureProviderLocked()
	}
	s.mu.Unlock()
	s.notify()

	return stderrors.Join(trErr, srcErr)
}

// ToggleLanguage switches between English and Arabic, refreshes the
// translations and provider list, and turns transliteration on for Arabic.
// It fails with ErrCodeBusy unless the session is Idle.
func (s *Session) ToggleLanguage(ctx context.Context) (locale.Lang, error) {
	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		lang := s.lang
		s.mu.Unlock()
		observability.Session().OnSubmitRejected(ctx, state.String())
		return lang, errors.New(errors.ErrCodeBusy, "cannot switch language while %s", state)
	}
	s.lang = s.lang.Toggle()
	s.catalog = locale.Builtin(s.lang)
	s.provider = ""
	s.ensureProviderLocked()
	lang := s.lang
	s.mu.Unlock()

	s.syncTranslit(lang)
	s.notify()
	return lang, s.Refresh(ctx)
}

// Submit asks question and animates the answer, then the sources. It
// returns once the session is Idle again.
//
// A blank question is ignored. A busy session returns ErrCodeBusy. Backend
// failures add one system message and are returned.
func (s *Session) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(s.translit.Commit(question))
	if question == "" {
		return nil
	}

	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		s.mu.Unlock()
		observability.Session().OnSubmitRejected(ctx, state.String())
		return errors.New(errors.ErrCodeBusy, "a question is already being answered")
	}
	token := uuid.NewString()
	s.token = token
	s.setStateLocked(ctx, Submitting)
	lang := s.lang
	var provider *string
	if s.provider != "" {
		p := s.provider
		provider = &p
	}
	s.appendLocked(&Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Lang:      lang,
		Direction: locale.DetectDirection(question),
		Text:      question,
		Created:   time.Now(),
	})
	s.mu.Unlock()
	s.notify()

	resp, err := s.backend.Ask(ctx, backend.AskRequest{
		Question: question,
		Provider: provider,
		Language: lang,
	})
	if err != nil {
		text, ok := backend.Message(err)
		if !ok {
			text = s.Text(locale.KeyErrorInternal)
		}
		s.mu.Lock()
		s.appendLocked(s.systemMessageLocked(text))
		s.finishLocked(ctx, token)
		s.mu.Unlock()
		s.notify()
		return err
	}

	msg := s.assistantMessage(resp)
	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "submission superseded")
	}
	s.appendLocked(msg)
	s.setStateLocked(ctx, Rendering)
	s.mu.Unlock()
	s.notify()

	s.render(ctx, msg, resp.Sources, token)
	return nil
}

// render animates the answer, then reveals and animates the sources.
func (s *Session) render(ctx context.Context, msg *Message, sources []backend.Source, token string) {
	rtl := msg.Direction.IsRTL()
	finish := func() {
		s.mu.Lock()
		s.finishLocked(ctx, token)
		s.mu.Unlock()
		s.notify()
	}

	answerHTML, err := s.md.Convert(msg.Text)
	if err != nil {
		answerHTML = markdown.Fallback(msg.Text)
	}
	sourcesHTML := SourcesHTML(sources, msg.Direction)

	answer := typewriter.Target{Surface: msg.Answer, Name: "answer", RTL: rtl}
	_ = s.renderer.Render(ctx, answer, answerHTML, func() {
		if msg.Sources == nil || sourcesHTML == "" {
			finish()
			return
		}
		msg.Sources.show()
		target := typewriter.Target{Surface: msg.Sources, Name: "sources", RTL: rtl, Sources: true}
		_ = s.renderer.Render(ctx, target, sourcesHTML, finish)
	})
}

func (s *Session) assistantMessage(resp *backend.AskResponse) *Message {
	lang := resp.Language
	if !lang.Valid() {
		lang = s.Lang()
	}
	dir := lang.Direction()
	msg := &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Lang:      lang,
		Direction: dir,
		Text:      StripAnswerPrefix(resp.Answer, dir),
		Created:   time.Now(),
		Answer:    newBlock(true, s.notify),
	}
	if len(resp.Sources) > 0 {
		msg.Sources = newBlock(false, s.notify)
	}
	return msg
}

// ClearHistory asks the backend to forget the conversation and clears the
// local message list, leaving the server's confirmation as a system
// message. It fails with ErrCodeBusy unless the session is Idle.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		s.mu.Unlock()
		observability.Session().OnSubmitRejected(ctx, state.String())
		return errors.New(errors.ErrCodeBusy, "cannot clear history while %s", state)
	}
	token := uuid.NewString()
	s.token = token
	s.setStateLocked(ctx, Submitting)
	lang := s.lang
	s.mu.Unlock()
	s.notify()

	text, err := s.backend.ClearHistory(ctx, lang)

	s.mu.Lock()
	if err != nil {
		msg, ok := backend.Message(err)
		if !ok {
			msg = s.catalog.Text(locale.KeyErrorInternal)
		}
		s.appendLocked(s.systemMessageLocked(msg))
	} else {
		if text == "" {
			text = s.catalog.Text(locale.KeyHistoryCleared)
		}
		s.messages = nil
		s.appendLocked(s.systemMessageLocked(text))
	}
	s.finishLocked(ctx, token)
	s.mu.Unlock()
	s.notify()
	return err
}

func (s *Session) systemMessageLocked(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleSystem,
		Lang:      s.lang,
		Direction: locale.DetectDirection(text),
		Text:      text,
		Created:   time.Now(),
	}
}

func (s *Session) appendLocked(m *Message) {
	s.messages = append(s.messages, m)
}

// finishLocked returns to Idle if token still owns the session.
func (s *Session) finishLocked(ctx context.Context, token string) {
	if s.token != token {
		return
	}
	s.token = ""
	s.setStateLocked(ctx, Idle)
}

func (s *Session) setStateLocked(ctx context.Context, to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	observability.Session().OnStateChange(ctx, from.String(), to.String())
}

// ensureProviderLocked keeps the provider valid for the current language,
// defaulting to the first option.
func (s *Session) ensureProviderLocked() {
	opts := s.sources.For(s.lang)
	if slices.ContainsFunc(opts, func(o backend.SourceOption) bool { return o.ID == s.provider }) {
		return
	}
	s.provider = ""
	if len(opts) > 0 {
		s.provider = opts[0].ID
	}
}

func (s *Session) syncTranslit(lang locale.Lang) {
	if lang == locale.Arabic {
		s.translit.Enable()
	} else {
		s.translit.Disable()
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
