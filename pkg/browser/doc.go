// Package browser manages one browser session per execution context.
//
// A Manager hands each execution context (a test, a worker, a CLI run) its
// own browser. Contexts are identified by a ContextID chosen by the caller;
// sessions never leak between contexts, and different contexts may use the
// manager concurrently.
//
// # Session Lifecycle
//
//  1. Initialize: creates the browser for a context, maximizes its window and
//     applies the implicit wait. Calling it again for a live context is a no-op.
//  2. Use: Driver, WaitPolicy, NavigateTo, PageTitle and CurrentURL operate on
//     the context's session and return ErrNotInitialized when there is none.
//  3. Quit: terminates the browser and frees the slot. Quitting a context
//     without a session, or one whose browser already died, is not an error.
//
// # Drivers
//
// Browser construction goes through a dispatch table keyed by Kind. Each
// Backend pairs a pure option builder with local and remote constructors:
//
//   - Local sessions are launched through playwright
//   - http and https endpoints are WebDriver grids, driven with selenium
//   - ws and wss endpoints are playwright browser servers
//
// Tests and embedders replace rows of the table with WithBackend.
//
// # Configuration
//
// Defaults come from config.Config: browser kind, grid URL, remote and
// headless flags, implicit and explicit wait seconds, and the environment
// registry used to resolve names such as "qa" in NavigateTo. InitOptions
// overrides them for a single Initialize call.
//
// # Example Usage
//
//	m := browser.NewManager(cfg, browser.WithLogger(logger))
//	defer m.Close()
//
//	if err := m.Initialize("login-test", browser.Chrome, nil); err != nil {
//	    return err
//	}
//	if err := m.NavigateTo("login-test", "qa"); err != nil {
//	    return err
//	}
//	wait, _ := m.WaitPolicy("login-test")
//	err := wait.Until(ctx, browser.TitleContains("Sign in"))
package browser
