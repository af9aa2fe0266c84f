package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/fatwa/internal/backendtest"
	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/termview"
)

func TestReadQuestion(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr bool
	}{
		{"args", []string{"What", "is", "zakat?"}, "", "What is zakat?", false},
		{"stdin", nil, "  What is zakat?\n", "What is zakat?", false},
		{"dash", []string{"-"}, "ما حكم الصيام؟\n", "ما حكم الصيام؟", false},
		{"empty stdin", nil, "\n\n", "", true},
		{"blank args", []string{"  "}, "", "", true},
		{"control chars", []string{"bad\x07question"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readQuestion(tt.args, strings.NewReader(tt.stdin))
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("readQuestion() error = %v, want invalid input", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("readQuestion() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readQuestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintAnswer(t *testing.T) {
	s, srv := testSession(t, locale.English, nil)
	srv.SetAnswer("Answer: Fasting is **recommended**.",
		backend.Source{Title: "Fatwa 42", URL: "https://example.org/42"},
	)
	if err := s.Submit(context.Background(), "Should I fast on Arafah?"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printAnswer(&buf, s, termview.Options{Width: 80, Theme: termview.Plain()})
	got := buf.String()

	if strings.Contains(got, "Should I fast") {
		t.Errorf("output should not repeat the question:\n%s", got)
	}
	for _, want := range []string{"Fasting is recommended.", "Sources", "Fatwa 42 (https://example.org/42)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintAnswerError(t *testing.T) {
	s, srv := testSession(t, locale.English, nil)
	srv.Fail(backendtest.RouteAsk, 400, "No question provided")
	if err := s.Submit(context.Background(), "anything"); err == nil {
		t.Fatal("Submit() should fail")
	}

	var buf bytes.Buffer
	printAnswer(&buf, s, termview.Options{Theme: termview.Plain()})
	if got := strings.TrimSpace(buf.String()); got != "No question provided" {
		t.Errorf("output = %q, want the server message", got)
	}
}

func TestAskModelView(t *testing.T) {
	s, _ := testSession(t, locale.English, nil)
	m := askModel{session: s, changes: newChanges(), opts: termview.Options{Theme: termview.Plain()}}

	if view := m.View(); !strings.Contains(view, "Thinking") {
		t.Errorf("pending view = %q, want the spinner", view)
	}

	if err := s.Submit(context.Background(), "What is zakat?"); err != nil {
		t.Fatal(err)
	}
	next, cmd := m.Update(submitMsg{})
	m = next.(askModel)
	if cmd == nil || !m.done {
		t.Fatal("submit result should finish the model")
	}
	view := m.View()
	if strings.Contains(view, "Thinking") {
		t.Errorf("finished view still shows the spinner: %q", view)
	}
	if !strings.Contains(view, "Yes.") {
		t.Errorf("finished view = %q, want the answer", view)
	}
}
