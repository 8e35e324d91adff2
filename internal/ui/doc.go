// Package ui implements the console's Bubble Tea interface.
//
// # Architecture
//
// Model is the single tea.Model. Screens are addressed by path, the same
// paths the breadcrumb package labels:
//
//	/                                 home, section counts
//	/clients                          client table
//	/clients/{id}                     the client's data sources
//	/clients/{id}/datasources/{id}    processing panel and paragraphs
//	/contacts[/{id}]
//	/projects[/{id}]
//	/briefs[/{id}]                    brief detail with status moves
//	/logs                             tail of the console log
//
// Every navigation shows the static breadcrumb trail at once and fires a
// command that resolves entity names through breadcrumb.Resolver. A result for
// a path the user has already left is discarded.
//
// # Data Flow
//
// Lists come from the state.Store snapshot, which app.StartPoller keeps
// fresh; the UI re-reads it on every tick. Data sources, paragraphs and brief
// moves go straight to the API through commands.
//
// # Processing
//
// A data source screen owns one processing.Machine. The machine's callbacks
// only signal buffered channels; a listening command turns each signal into a
// message carrying a fresh snapshot. Leaving the screen cancels the machine's
// context and reaps its poll loop.
//
// # Key Bindings
//
// Sections: c (clients), o (contacts), p (projects), b (briefs), l (logs),
// H (home), : (type a path). Lists: j/k, g/G, enter, esc. Data sources: x (process),
// r (retry). Global: y (copy path), R (reload), T (theme), h/? (help),
// e or ctrl+c (quit).
package ui
