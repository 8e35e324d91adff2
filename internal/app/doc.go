// Package app is the composition root of the console.
//
// Bootstrap turns Options into an Env: it loads config (koanf layers), builds
// the zap file logger, opens the bolt session store and creates the API client
// with a token chain that prefers an explicit token over the saved one. The
// breadcrumb resolver is wired to the client so entity IDs in paths resolve to
// names.
//
// Run adds the pieces the TUI needs on top of an Env:
//
//	Run()
//	 ├─> Bootstrap()        config, logger, session, client, resolver
//	 ├─> StartPoller()      background list refresh into state.Store
//	 └─> ui.Run()           blocks until quit or ctx cancel
//
// # Polling Behavior
//
// StartPoller refreshes companies, contacts, projects and briefs concurrently
// with errgroup. Any failure keeps the previous snapshot, records the error on
// the store and stretches the next wait with calculateBackoff (doubling, capped
// at 30s). A success snaps back to the configured interval.
//
// # Error Handling
//
// Config, logger, session and client failures are fatal and returned from
// Bootstrap. Everything after startup is logged and surfaced in the UI.
package app
