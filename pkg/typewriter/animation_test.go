package typewriter

import (
	"testing"

	"github.com/matzehuels/fatwa/pkg/markup"
)

func TestAnimationSteps(t *testing.T) {
	tokens := markup.Tokenize("<p>ab</p>", markup.Options{})
	a := NewAnimation(tokens)

	want := []struct {
		kind   StepKind
		output string
	}{
		{StepTag, "<p>"},
		{StepRune, "<p>a"},
		{StepRune, "<p>ab"},
		{StepAdvance, "<p>ab"},
		{StepTag, "<p>ab</p>"},
	}

	for i, w := range want {
		step, ok := a.Next()
		if !ok {
			t.Fatalf("step %d: animation ended early", i)
		}
		if step.Kind != w.kind {
			t.Errorf("step %d: kind = %v, want %v", i, step.Kind, w.kind)
		}
		if step.Output != w.output {
			t.Errorf("step %d: output = %q, want %q", i, step.Output, w.output)
		}
	}
	if _, ok := a.Next(); ok {
		t.Error("Next() after last token should return false")
	}
	if !a.Done() {
		t.Error("Done() = false after last step")
	}
}

func TestAnimationRevealsRunes(t *testing.T) {
	a := NewAnimation([]markup.Token{markup.Text("سلام")})

	var outputs []string
	for {
		step, ok := a.Next()
		if !ok {
			break
		}
		if step.Kind == StepRune {
			outputs = append(outputs, step.Output)
		}
	}

	want := []string{"س", "سل", "سلا", "سلام"}
	if len(outputs) != len(want) {
		t.Fatalf("got %d rune steps, want %d: %q", len(outputs), len(want), outputs)
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("rune step %d = %q, want %q", i, outputs[i], want[i])
		}
	}
}

func TestAnimationEmpty(t *testing.T) {
	a := NewAnimation(nil)
	if _, ok := a.Next(); ok {
		t.Error("empty animation should have no steps")
	}
	if a.Output() != "" {
		t.Errorf("Output() = %q, want empty", a.Output())
	}
}

func TestAnimationProgress(t *testing.T) {
	a := NewAnimation([]markup.Token{markup.Tag("<b>"), markup.Text("x"), markup.Tag("</b>")})
	a.Next()
	if done, total := a.Progress(); done != 1 || total != 3 {
		t.Errorf("Progress() = %d/%d, want 1/3", done, total)
	}
}

func TestStepMutates(t *testing.T) {
	tests := []struct {
		kind StepKind
		want bool
	}{
		{StepTag, true},
		{StepRune, true},
		{StepAdvance, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := (Step{Kind: tt.kind}).Mutates(); got != tt.want {
				t.Errorf("Mutates() = %v, want %v", got, tt.want)
			}
		})
	}
}
