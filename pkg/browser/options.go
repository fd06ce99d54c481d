package browser

import (
	"github.com/playwright-community/playwright-go"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// Command line switches shared by Chromium based browsers.
const (
	argDisableNotifications = "--disable-notifications"
	argHeadless             = "--headless=new"
	argDisableGPU           = "--disable-gpu"
	argNoSandbox            = "--no-sandbox"
	argDisableDevShm        = "--disable-dev-shm-usage"

	argFirefoxHeadless = "-headless"
)

// Default screen size used to maximize windows that have no real display.
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// Options is the browser configuration handed to a driver constructor.
// It is built by a pure function and carries no live resources.
type Options struct {
	Kind     Kind
	Headless bool
	Remote   bool

	// Args are command line switches for the browser binary
	Args []string

	// Prefs are browser profile preferences
	Prefs map[string]interface{}

	// AcceptInsecureCerts allows self-signed and otherwise invalid certificates
	AcceptInsecureCerts bool

	// Channel selects a branded Chromium build for local playwright launches
	Channel string
}

// HasArg reports whether arg is one of the command line switches.
func (o Options) HasArg(arg string) bool {
	for _, a := range o.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// BuildOptions builds the configuration for kind using the default
// dispatch table. It has no side effects.
func BuildOptions(kind Kind, headless, remote bool) (Options, error) {
	b, ok := optionBuilders[kind]
	if !ok {
		_, err := ParseKind(string(kind))
		return Options{}, err
	}
	return b(headless, remote), nil
}

// OptionsFunc builds the configuration for one browser kind.
type OptionsFunc func(headless, remote bool) Options

var optionBuilders = map[Kind]OptionsFunc{
	Chrome:  chromeOptions,
	Edge:    edgeOptions,
	Firefox: firefoxOptions,
}

func chromiumOptions(kind Kind, headless, remote bool) Options {
	opts := Options{
		Kind:     kind,
		Headless: headless,
		Remote:   remote,
		Args:     []string{argDisableNotifications},
		Prefs: map[string]interface{}{
			"credentials_enable_service":                           false,
			"profile.password_manager_enabled":                     false,
			"profile.default_content_setting_values.notifications": 2,
		},
		AcceptInsecureCerts: true,
	}
	if headless {
		opts.Args = append(opts.Args, argHeadless, argDisableGPU, argNoSandbox, argDisableDevShm)
	}
	return opts
}

func chromeOptions(headless, remote bool) Options {
	return chromiumOptions(Chrome, headless, remote)
}

func edgeOptions(headless, remote bool) Options {
	opts := chromiumOptions(Edge, headless, remote)
	opts.Channel = "msedge"
	return opts
}

func firefoxOptions(headless, remote bool) Options {
	opts := Options{
		Kind:     Firefox,
		Headless: headless,
		Remote:   remote,
		Args:     []string{},
		Prefs: map[string]interface{}{
			"dom.webnotifications.enabled": false,
			"dom.push.enabled":             false,
		},
		AcceptInsecureCerts: true,
	}
	if headless {
		opts.Args = append(opts.Args, argFirefoxHeadless)
		opts.Prefs["layers.acceleration.disabled"] = true
	}
	return opts
}

// playwrightLaunchOptions converts opts for BrowserType.Launch.
// Headless mode is passed through the Headless field; playwright adds its
// own switch, so the explicit one is filtered out.
func playwrightLaunchOptions(opts Options) playwright.BrowserTypeLaunchOptions {
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}

	args := make([]string, 0, len(opts.Args))
	for _, a := range opts.Args {
		if a == argHeadless || a == argFirefoxHeadless {
			continue
		}
		args = append(args, a)
	}

	if opts.Kind.chromium() {
		if !opts.Headless {
			args = append(args, "--start-maximized")
		}
		launch.Args = args
		if opts.Channel != "" {
			launch.Channel = playwright.String(opts.Channel)
		}
		return launch
	}

	launch.Args = args
	launch.FirefoxUserPrefs = opts.Prefs
	return launch
}

// playwrightContextOptions converts opts for Browser.NewContext. Headed
// local Chromium windows are sized by the window manager, everything else
// gets a screen-sized viewport.
func playwrightContextOptions(opts Options) playwright.BrowserNewContextOptions {
	ctxOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(opts.AcceptInsecureCerts),
	}
	if opts.Kind.chromium() && !opts.Headless && !opts.Remote {
		ctxOpts.NoViewport = playwright.Bool(true)
	} else {
		ctxOpts.Viewport = &playwright.Size{
			Width:  DefaultScreenWidth,
			Height: DefaultScreenHeight,
		}
	}
	return ctxOpts
}

// seleniumCapabilities converts opts into W3C capabilities for a grid.
func seleniumCapabilities(opts Options) selenium.Capabilities {
	caps := selenium.Capabilities{
		"acceptInsecureCerts": opts.AcceptInsecureCerts,
	}

	switch opts.Kind {
	case Chrome:
		caps["browserName"] = "chrome"
		caps.AddChrome(chrome.Capabilities{
			Args:  opts.Args,
			Prefs: opts.Prefs,
		})
	case Edge:
		caps["browserName"] = "MicrosoftEdge"
		caps["ms:edgeOptions"] = map[string]interface{}{
			"args":  opts.Args,
			"prefs": opts.Prefs,
		}
	case Firefox:
		caps["browserName"] = "firefox"
		caps.AddFirefox(firefox.Capabilities{
			Args:  opts.Args,
			Prefs: opts.Prefs,
		})
	}

	return caps
}
