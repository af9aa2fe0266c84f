// Package pkg provides the libraries behind the fatwa terminal client.
//
// # Overview
//
// Fatwa sends a question to the fatwa backend, converts the Markdown answer
// to HTML and types it out tag by tag and character by character, followed
// by the list of sources. The pkg directory is organized into three areas:
//
//  1. Rendering - [markup], [typewriter], [markdown] and [termview]
//  2. Conversation - [chat], [backend], [locale] and [translit]
//  3. Infrastructure - [cache], [httputil], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The data flow of one question:
//
//	question
//	    ↓
//	[backend] POST /ask
//	    ↓
//	[markdown] answer Markdown → HTML
//	    ↓
//	[markup] HTML → tag and text tokens
//	    ↓
//	[typewriter] paced playback onto a surface (answer, then sources)
//	    ↓
//	[termview] surface HTML → wrapped, styled terminal text
//
// [chat.Session] owns the conversation and its Idle → Submitting →
// Rendering → Idle cycle; input is rejected until the cycle completes.
//
// # Quick Start
//
//	client, _ := backend.New("http://localhost:5001")
//	s := chat.New(chat.Config{
//	    Backend:  client,
//	    Renderer: typewriter.NewRenderer(typewriter.Instant),
//	    Lang:     locale.Arabic,
//	})
//	if err := s.Submit(ctx, "ما حكم صيام يوم عرفة؟"); err != nil {
//	    return err
//	}
//	for _, m := range s.Messages() {
//	    if m.Answer != nil {
//	        fmt.Println(termview.Render(m.Answer.HTML(), termview.Options{RTL: true}))
//	    }
//	}
//
// # Testing
//
//	go test ./...                      # All tests
//	go test ./pkg/typewriter/...       # Specific package
//
// Rendering is tested with [typewriter.VirtualScheduler] so no test sleeps.
//
// [markup]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/markup
// [typewriter]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/typewriter
// [typewriter.VirtualScheduler]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/typewriter#VirtualScheduler
// [markdown]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/markdown
// [termview]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/termview
// [chat]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/chat
// [chat.Session]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/chat#Session
// [backend]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/backend
// [locale]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/locale
// [translit]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/translit
// [cache]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/fatwa/pkg/buildinfo
package pkg
