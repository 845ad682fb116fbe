// Package bugsnag wires crash and error reporting for the stratus CLI.
// Reporting is disabled entirely unless an API key is compiled in, and users
// can opt out with STRATUS_DISABLE_TELEMETRY.
package bugsnag

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stratushq/stratus/internal/version"
	"github.com/stratushq/stratus/pkg/config"
)

// Build-time variables set via ldflags
// Example: go build -ldflags "-X github.com/stratushq/stratus/pkg/bugsnag.BugsnagAPIKey=your-key"
var (
	// BugsnagAPIKey is the API key for error reporting, injected at compile
	// time. Empty key disables reporting.
	BugsnagAPIKey = ""

	// DefaultReleaseStage defines the default environment for error reporting
	DefaultReleaseStage = "prod"
)

var (
	initialized bool
	enabled     bool
)

// Initialize configures the Bugsnag error reporting client. Idempotent;
// silently disables itself without a compiled-in API key or when the user has
// opted out.
func Initialize() error {
	if initialized {
		return nil
	}

	if os.Getenv("STRATUS_DISABLE_TELEMETRY") != "" {
		initialized = true
		enabled = false
		return nil
	}

	if BugsnagAPIKey == "" {
		initialized = true
		enabled = false
		return nil
	}

	apiKey := BugsnagAPIKey
	if envKey := os.Getenv("BUGSNAG_API_KEY"); envKey != "" {
		apiKey = envKey
	}

	releaseStage := os.Getenv("STRATUS_ENV")
	if releaseStage == "" {
		releaseStage = DefaultReleaseStage
	}

	appVersion := version.Version
	if appVersion == "" {
		appVersion = "dev"
	}

	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              apiKey,
		ReleaseStage:        releaseStage,
		AppVersion:          appVersion,
		AppType:             "cli",
		ProjectPackages:     []string{"main", "github.com/stratushq/stratus"},
		NotifyReleaseStages: []string{"prod", "dev", "local"},
		PanicHandler:        func() {}, // Panics re-raised by NotifyOnPanic
		Synchronous:         false,
		AutoCaptureSessions: true,
	})

	addSystemMetadata()
	setUserContext()

	initialized = true
	enabled = true
	return nil
}

// IsEnabled returns whether Bugsnag error reporting is active
func IsEnabled() bool {
	return enabled
}

// addSystemMetadata enriches error reports with runtime environment details
func addSystemMetadata() {
	systemInfo := bugsnag.MetaData{
		"system": {
			"os_type":       runtime.GOOS,
			"os_arch":       runtime.GOARCH,
			"go_version":    runtime.Version(),
			"num_cpu":       runtime.NumCPU(),
			"num_goroutine": runtime.NumGoroutine(),
		},
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		for tab, data := range systemInfo {
			for key, value := range data {
				event.MetaData.Add(tab, key, value)
			}
		}
		return nil
	})
}

// setUserContext attaches the token's subject to error reports so failures
// can be correlated per user without transmitting the token itself.
func setUserContext() {
	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		cfg, _ := config.Load() // Reporting must not block on config problems
		if cfg == nil || cfg.Token == "" {
			return nil
		}

		if userID := getUserIDFromJWT(cfg.Token); userID != "" {
			event.User = &bugsnag.User{Id: userID}
		}

		return nil
	})
}

// getUserIDFromJWT extracts the subject from a JWT without validating the
// signature, which would require a network round trip.
func getUserIDFromJWT(tokenString string) string {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}

	return ""
}

// NotifyError reports errors that indicate system failures
func NotifyError(ctx context.Context, err error) {
	if !initialized {
		_ = Initialize()
	}

	if !enabled || err == nil {
		return
	}

	_ = bugsnag.Notify(err, ctx, bugsnag.SeverityError)
}

// SetCommandContext tags reports with the CLI command that was running
func SetCommandContext(command string, args []string) {
	if !initialized {
		_ = Initialize()
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		event.MetaData.Add("command", "name", command)
		if len(args) > 0 {
			event.MetaData.Add("command", "args", strings.Join(args, " "))
		}
		return nil
	})
}

// NotifyOnPanic reports a panic before re-raising it. Use with defer in main
// and at the top of long-lived goroutines.
func NotifyOnPanic(ctx context.Context) {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = fmt.Errorf("panic: %s", x)
		case error:
			err = fmt.Errorf("panic: %w", x)
		default:
			err = fmt.Errorf("panic: %v", r)
		}

		NotifyError(ctx, err)

		panic(r)
	}
}

// IsUserCancellation identifies errors from user-initiated cancellations.
// These are normal behavior and excluded from reporting.
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "operation cancelled") ||
		strings.Contains(errStr, "cancelled by user")
}
