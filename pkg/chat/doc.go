// Package chat holds the state of one conversation with the backend.
//
// A [Session] owns the message list, the UI language, the selected provider
// and the submission state machine:
//
//	Idle ──Submit──▶ Submitting ──answer──▶ Rendering ──done──▶ Idle
//	                      │
//	                      └──error──▶ Idle (one system message)
//
// Only an Idle session accepts a question, a language toggle or a history
// clear; anything else fails with errors.ErrCodeBusy. Each submission takes
// a fresh render token, and only the render holding the current token may
// return the session to Idle.
//
// Assistant messages expose two [Block] surfaces. The answer block is
// animated first; the sources block stays hidden until the answer's
// completion callback makes it visible and starts its own animation.
//
// Submit blocks until the whole animation has finished. Views run it on a
// goroutine and repaint from the Config.OnChange callback.
package chat
