// Package locale holds the language, direction and text catalog helpers
// shared by the renderer and the chat client.
//
// Two languages are supported, English ([English]) and Arabic ([Arabic]).
// Arabic switches the layout to right-to-left and numbers list items with
// Arabic-indic digits.
//
// # Direction
//
// [DetectDirection] looks at the first non-whitespace rune of a text and
// reports [RTL] when it falls in one of the Arabic blocks:
//
//	locale.DetectDirection("  مرحبا") // rtl
//	locale.DetectDirection("Hello")    // ltr
//	locale.DetectDirection("")         // ltr
//
// # Catalog
//
// UI strings come from the backend's /translations endpoint. [Builtin]
// returns the embedded fallback catalog used until (or instead of) the remote
// one, and [Catalog.Merge] layers remote strings over it.
package locale
