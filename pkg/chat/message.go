package chat

import (
	"sync"
	"time"

	"github.com/matzehuels/fatwa/pkg/locale"
)

// Role is who a message came from.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the conversation.
//
// User and system messages carry plain Text. Assistant messages carry the
// answer Markdown in Text and the animated HTML in Answer and, when the
// backend returned sources, in Sources.
type Message struct {
	ID        string
	Role      Role
	Lang      locale.Lang
	Direction locale.Direction
	Text      string
	Created   time.Time

	Answer  *Block
	Sources *Block
}

// Block is an HTML region of an assistant message. It implements
// typewriter.Surface.
type Block struct {
	mu       sync.Mutex
	html     string
	visible  bool
	onChange func()
}

func newBlock(visible bool, onChange func()) *Block {
	return &Block{visible: visible, onChange: onChange}
}

// SetHTML replaces the block content.
func (b *Block) SetHTML(html string) {
	b.mu.Lock()
	b.html = html
	b.mu.Unlock()
	b.changed()
}

// HTML returns the current content.
func (b *Block) HTML() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

// Visible reports whether the block should be drawn.
func (b *Block) Visible() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *Block) show() {
	b.mu.Lock()
	b.visible = true
	b.mu.Unlock()
	b.changed()
}

func (b *Block) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}
