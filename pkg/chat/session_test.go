package chat_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/fatwa/internal/backendtest"
	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/chat"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/typewriter"
)

func newSession(t *testing.T, server string, sched typewriter.Scheduler, lang locale.Lang) *chat.Session {
	t.Helper()
	client, err := backend.New(server)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return chat.New(chat.Config{
		Backend:  client,
		Renderer: typewriter.NewRenderer(sched),
		Lang:     lang,
	})
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse %q: %v", html, err)
	}
	return doc
}

func lastMessage(s *chat.Session) *chat.Message {
	msgs := s.Messages()
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

type snapshot struct {
	answer         string
	sourcesVisible bool
	sources        string
}

func TestSubmitRendersAnswerThenSources(t *testing.T) {
	srv := backendtest.New(t)
	srv.SetAnswer("Answer: The ruling:\n\n1. First\n2. Second",
		backend.Source{Title: "Fatwa 1", URL: "https://www.dar-alifta.org/1"},
		backend.Source{Title: "Fatwa 2", URL: "https://www.dar-alifta.org/2"},
	)

	sched := typewriter.NewVirtualScheduler()
	s := newSession(t, srv.URL, sched, locale.English)

	var snaps []snapshot
	sched.OnYield = func() {
		m := lastMessage(s)
		if m == nil || m.Role != chat.RoleAssistant {
			return
		}
		snaps = append(snaps, snapshot{m.Answer.HTML(), m.Sources.Visible(), m.Sources.HTML()})
	}

	if err := s.Submit(context.Background(), "  What is the ruling?  "); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	user, asst := msgs[0], msgs[1]
	if user.Role != chat.RoleUser || user.Text != "What is the ruling?" || user.Direction != locale.LTR {
		t.Errorf("user message = %+v", user)
	}
	if asst.Role != chat.RoleAssistant || asst.Direction != locale.LTR {
		t.Errorf("assistant message = %+v", asst)
	}
	if strings.HasPrefix(asst.Text, "Answer:") {
		t.Errorf("answer prefix not stripped: %q", asst.Text)
	}

	answer := parse(t, asst.Answer.HTML())
	items := answer.Find("ol li")
	if items.Length() != 2 {
		t.Fatalf("answer list items = %d, want 2", items.Length())
	}
	if got := items.First().Text(); got != "1. First" {
		t.Errorf("first item = %q, want %q", got, "1. First")
	}
	if got := items.Last().Text(); got != "2. Second" {
		t.Errorf("second item = %q, want %q", got, "2. Second")
	}

	if !asst.Sources.Visible() {
		t.Fatal("sources should be visible after rendering")
	}
	sources := parse(t, asst.Sources.HTML())
	if got := sources.Find("p").Text(); got != "Sources" {
		t.Errorf("sources title = %q", got)
	}
	if n := sources.Find("li a").Length(); n != 2 {
		t.Errorf("source links = %d, want 2", n)
	}
	if href, _ := sources.Find("a").First().Attr("href"); href != "https://www.dar-alifta.org/1" {
		t.Errorf("first href = %q", href)
	}
	if strings.Contains(asst.Sources.HTML(), "•") {
		t.Error("sources must not have bullets")
	}

	// Ordering: sources stay hidden and empty while the answer grows, and
	// the answer is final from the moment they appear.
	finalAnswer := asst.Answer.HTML()
	first := -1
	for i, sn := range snaps {
		if sn.sourcesVisible {
			first = i
			break
		}
		if sn.sources != "" {
			t.Fatalf("snapshot %d: hidden sources have content %q", i, sn.sources)
		}
	}
	if first <= 0 {
		t.Fatalf("sources became visible at snapshot %d, want after the answer animation", first)
	}
	if snaps[first-1].answer != finalAnswer {
		t.Error("sources became visible before the answer finished")
	}
	for i := first; i < len(snaps); i++ {
		if !snaps[i].sourcesVisible {
			t.Fatalf("snapshot %d: sources hidden again", i)
		}
		if snaps[i].answer != finalAnswer {
			t.Fatalf("snapshot %d: answer changed after sources started", i)
		}
	}
	if snaps[0].answer == finalAnswer {
		t.Error("answer was not animated")
	}
}

func TestSubmitArabic(t *testing.T) {
	srv := backendtest.New(t)
	srv.SetAnswer("الجواب: الحكم:\n\n1. أولا\n2. ثانيا",
		backend.Source{Title: "فتوى", URL: "https://www.dar-alifta.org/ar/1"},
	)
	s := newSession(t, srv.URL, typewriter.Instant, locale.Arabic)

	if err := s.Submit(context.Background(), "ما حكم الصيام؟"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	msgs := s.Messages()
	if msgs[0].Direction != locale.RTL {
		t.Errorf("user direction = %s, want rtl", msgs[0].Direction)
	}
	asst := msgs[1]
	if asst.Direction != locale.RTL || asst.Lang != locale.Arabic {
		t.Errorf("assistant = %s/%s, want ar/rtl", asst.Lang, asst.Direction)
	}
	if strings.HasPrefix(asst.Text, "الجواب") {
		t.Errorf("arabic prefix not stripped: %q", asst.Text)
	}

	items := parse(t, asst.Answer.HTML()).Find("ol li")
	if got := items.First().Text(); got != "١ . أولا" {
		t.Errorf("first item = %q, want %q", got, "١ . أولا")
	}
	if got := items.Last().Text(); got != "٢ . ثانيا" {
		t.Errorf("second item = %q, want %q", got, "٢ . ثانيا")
	}
	if got := parse(t, asst.Sources.HTML()).Find("p").Text(); got != "المصادر" {
		t.Errorf("sources title = %q", got)
	}
}

func TestSubmitWithoutSources(t *testing.T) {
	srv := backendtest.New(t)
	srv.SetAnswer("Answer: No sources here.")
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)

	if err := s.Submit(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	asst := lastMessage(s)
	if asst.Sources != nil {
		t.Error("assistant message without sources should have no sources block")
	}
	if got := strings.TrimSpace(parse(t, asst.Answer.HTML()).Text()); got != "No sources here." {
		t.Errorf("answer text = %q", got)
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestSubmitTransliteratesArabizi(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.Arabic)

	if err := s.Submit(context.Background(), "salaam"); err != nil {
		t.Fatal(err)
	}
	if got := srv.Asked()[0].Question; got != "سلام" {
		t.Errorf("question sent = %q, want سلام", got)
	}
}

func TestSubmitBlankIgnored(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)

	if err := s.Submit(context.Background(), " \n\t "); err != nil {
		t.Errorf("Submit(blank) error = %v", err)
	}
	if !s.Empty() {
		t.Error("blank submission should not add messages")
	}
	if srv.Hits(backendtest.RouteAsk) != 0 {
		t.Error("blank submission should not reach the backend")
	}
}

func TestSubmitBackendErrors(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		srv := backendtest.New(t)
		srv.Fail(backendtest.RouteAsk, http.StatusInternalServerError, "Internal server error")
		s := newSession(t, srv.URL, typewriter.Instant, locale.English)

		err := s.Submit(context.Background(), "q")
		if !stderrors.Is(err, backend.ErrBackend) {
			t.Errorf("Submit() error = %v, want ErrBackend", err)
		}
		assertSystemMessage(t, s, "Internal server error")
	})

	t.Run("transport failure", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		s := newSession(t, url, typewriter.Instant, locale.Arabic)
		if err := s.Submit(context.Background(), "سؤال"); err == nil {
			t.Error("Submit() should fail")
		}
		assertSystemMessage(t, s, locale.Builtin(locale.Arabic).Text(locale.KeyErrorInternal))
	})
}

func assertSystemMessage(t *testing.T, s *chat.Session, want string) {
	t.Helper()
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user + system", len(msgs))
	}
	if msgs[1].Role != chat.RoleSystem || msgs[1].Text != want {
		t.Errorf("system message = %s %q, want %q", msgs[1].Role, msgs[1].Text, want)
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle right after the error", s.State())
	}
}

// blockingBackend holds /ask until release is closed.
type blockingBackend struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingBackend) Ask(ctx context.Context, req backend.AskRequest) (*backend.AskResponse, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &backend.AskResponse{Answer: "ok", Language: req.Language}, nil
}

func (b *blockingBackend) Translations(context.Context, locale.Lang) (backend.Translations, error) {
	return nil, nil
}

func (b *blockingBackend) Sources(context.Context) (backend.SourceCatalog, error) {
	return nil, nil
}

func (b *blockingBackend) ClearHistory(context.Context, locale.Lang) (string, error) {
	return "", nil
}

func TestBusySessionRejectsInput(t *testing.T) {
	b := &blockingBackend{started: make(chan struct{}), release: make(chan struct{})}
	s := chat.New(chat.Config{Backend: b, Renderer: typewriter.NewRenderer(typewriter.Instant)})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Submit(ctx, "first") }()

	select {
	case <-b.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the backend")
	}
	if s.State() != chat.Submitting || !s.Busy() {
		t.Errorf("State() = %v, want submitting", s.State())
	}

	if err := s.Submit(ctx, "second"); !errors.Is(err, errors.ErrCodeBusy) {
		t.Errorf("second Submit() error = %v, want BUSY", err)
	}
	if _, err := s.ToggleLanguage(ctx); !errors.Is(err, errors.ErrCodeBusy) {
		t.Errorf("ToggleLanguage() error = %v, want BUSY", err)
	}
	if err := s.ClearHistory(ctx); !errors.Is(err, errors.ErrCodeBusy) {
		t.Errorf("ClearHistory() error = %v, want BUSY", err)
	}
	if s.Lang() != locale.English {
		t.Error("language changed while busy")
	}

	close(b.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if n := len(s.Messages()); n != 2 {
		t.Errorf("got %d messages, want 2", n)
	}
}

func TestSubmitCancelledFailsOpen(t *testing.T) {
	srv := backendtest.New(t)
	srv.SetAnswer("Answer: A long answer that will not finish animating.",
		backend.Source{Title: "T", URL: "https://example.com"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := typewriter.NewVirtualScheduler()
	yields := 0
	sched.OnYield = func() {
		yields++
		if yields == 5 {
			cancel()
		}
	}
	s := newSession(t, srv.URL, sched, locale.English)

	if err := s.Submit(ctx, "q"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	asst := lastMessage(s)
	if got := asst.Answer.HTML(); got != "<p>A long answer that will not finish animating.</p>\n" {
		t.Errorf("answer after cancel = %q, want full HTML", got)
	}
	if !asst.Sources.Visible() || !strings.Contains(asst.Sources.HTML(), "https://example.com") {
		t.Error("sources should be shown in full after cancel")
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestRefreshAndToggleLanguage(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)
	ctx := context.Background()

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := s.Provider(); got != "dar-al-iftaa-en" {
		t.Errorf("Provider() = %q, want dar-al-iftaa-en", got)
	}
	if s.Translit().Enabled() {
		t.Error("transliteration should be off in English")
	}

	lang, err := s.ToggleLanguage(ctx)
	if err != nil {
		t.Fatalf("ToggleLanguage() error = %v", err)
	}
	if lang != locale.Arabic || s.Lang() != locale.Arabic {
		t.Errorf("language = %s, want ar", lang)
	}
	if got := s.Text(locale.KeyTitle); got != "فتوى" {
		t.Errorf("title = %q, want فتوى", got)
	}
	if got := s.Provider(); got != "dar-al-iftaa-ar" {
		t.Errorf("Provider() = %q, want dar-al-iftaa-ar", got)
	}
	if !s.Translit().Enabled() {
		t.Error("transliteration should be on in Arabic")
	}
	if n := srv.Hits(backendtest.RouteTranslations); n != 2 {
		t.Errorf("translations fetched %d times, want 2", n)
	}

	if _, err := s.ToggleLanguage(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Translit().Enabled() {
		t.Error("transliteration should be off again")
	}

	if err := s.Submit(ctx, "q"); err != nil {
		t.Fatal(err)
	}
	asked := srv.Asked()
	if p := asked[0].Provider; p == nil || *p != "dar-al-iftaa-en" {
		t.Errorf("provider sent = %v, want dar-al-iftaa-en", p)
	}
}

func TestRefreshFailureKeepsBuiltins(t *testing.T) {
	srv := backendtest.New(t)
	srv.Fail(backendtest.RouteTranslations, http.StatusInternalServerError, "")
	srv.Fail(backendtest.RouteSources, http.StatusInternalServerError, "")
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)

	if err := s.Refresh(context.Background()); err == nil {
		t.Error("Refresh() should report the failures")
	}
	if got := s.Text(locale.KeyTitle); got != "Fatwa" {
		t.Errorf("title = %q, want built-in Fatwa", got)
	}
	if got := s.Providers(); len(got) != 0 {
		t.Errorf("Providers() = %v, want none", got)
	}
	if s.Provider() != "" {
		t.Errorf("Provider() = %q, want empty", s.Provider())
	}
}

func TestProviderSelection(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)
	_ = s.Refresh(context.Background())

	if err := s.SetProvider("nope"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetProvider(nope) error = %v", err)
	}
	if err := s.SetProvider(""); err != nil {
		t.Errorf("SetProvider(\"\") error = %v", err)
	}
	if got := s.CycleProvider(); got != "dar-al-iftaa-en" {
		t.Errorf("CycleProvider() = %q", got)
	}
	// A single provider cycles to itself.
	if got := s.CycleProvider(); got != "dar-al-iftaa-en" {
		t.Errorf("CycleProvider() = %q", got)
	}
}

func TestClearHistory(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)
	ctx := context.Background()

	if err := s.Submit(ctx, "q"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != chat.RoleSystem || msgs[0].Text != "Conversation history cleared" {
		t.Errorf("messages after clear = %+v", msgs)
	}
	if srv.HistoryLen() != 0 {
		t.Error("server history not cleared")
	}
	if s.State() != chat.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestLastQuestion(t *testing.T) {
	srv := backendtest.New(t)
	s := newSession(t, srv.URL, typewriter.Instant, locale.English)
	if s.LastQuestion() != "" {
		t.Error("LastQuestion() on empty session should be empty")
	}
	_ = s.Submit(context.Background(), "first")
	_ = s.Submit(context.Background(), "second")
	if got := s.LastQuestion(); got != "second" {
		t.Errorf("LastQuestion() = %q, want second", got)
	}
}

func TestOnChangeCalled(t *testing.T) {
	srv := backendtest.New(t)
	client, _ := backend.New(srv.URL)

	var mu sync.Mutex
	changes := 0
	s := chat.New(chat.Config{
		Backend:  client,
		Renderer: typewriter.NewRenderer(typewriter.Instant),
		OnChange: func() {
			mu.Lock()
			changes++
			mu.Unlock()
		},
	})
	if err := s.Submit(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if changes < 3 {
		t.Errorf("OnChange called %d times, want at least one per step", changes)
	}
}
