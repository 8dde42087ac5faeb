// Package config parses cubetimer.toml configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/scramble"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store"
)

// FileName is the configuration file looked up by Load.
const FileName = "cubetimer.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CUBETIMER_"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// ErrNotFound is returned by Load when no cubetimer.toml exists in the
// working directory or any parent.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level cubetimer.toml configuration.
type Config struct {
	Timer         TimerConfig         `toml:"timer"`
	Contexts      []ContextConfig     `toml:"contexts"`
	Store         StoreConfig         `toml:"store"`
	Journal       JournalConfig       `toml:"journal"`
	Log           LogConfig           `toml:"log"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// TimerConfig holds the timing and input preferences.
type TimerConfig struct {
	UseInspection      bool     `toml:"use_inspection"`
	HideRunningTimer   bool     `toml:"hide_running_timer"`
	HideInspectionTime bool     `toml:"hide_inspection_time"`
	InspectionSeconds  int      `toml:"inspection_seconds"`
	GracePeriodMS      int      `toml:"grace_period_ms"`
	TickIntervalMS     int      `toml:"tick_interval_ms"`
	EnablePollMS       int      `toml:"enable_poll_ms"`
	KeyHoldWindowMS    int      `toml:"key_hold_window_ms"` // key counts as released after this long without auto-repeat
	ActivationKey      string   `toml:"activation_key"`
	CancelKey          string   `toml:"cancel_key"`
	BlindContexts      []string `toml:"blind_contexts"`
}

// ContextConfig defines one timing context.
type ContextConfig struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Puzzle   string `toml:"puzzle"`
	Attempts int    `toml:"attempts"`
	Blind    bool   `toml:"blind"`
}

// StoreConfig controls the results database.
type StoreConfig struct {
	Path      string `toml:"path"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// JournalConfig controls the per-session event journal.
type JournalConfig struct {
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // number of session logs to keep; 0 = unlimited
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL        string `toml:"url"`
	OnComplete bool   `toml:"on_complete"`
	OnError    bool   `toml:"on_error"`
	OnResult   bool   `toml:"on_result"`
}

// envOverrides are the settings that can be overridden from the
// environment, each prefixed with EnvPrefix.
type envOverrides struct {
	StorePath     string `env:"STORE_PATH"`
	JournalDir    string `env:"JOURNAL_DIR"`
	LogLevel      string `env:"LOG_LEVEL"`
	LogFile       string `env:"LOG_FILE"`
	UseInspection bool   `env:"USE_INSPECTION"`
	NotifyURL     string `env:"NOTIFY_URL"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	t := c.Timer
	if t.InspectionSeconds <= 0 {
		errs = append(errs, fmt.Errorf("timer.inspection_seconds must be > 0"))
	}
	if t.GracePeriodMS < 0 {
		errs = append(errs, fmt.Errorf("timer.grace_period_ms must be >= 0"))
	}
	if t.TickIntervalMS < 1 || t.TickIntervalMS > 1000 {
		errs = append(errs, fmt.Errorf("timer.tick_interval_ms must be between 1 and 1000"))
	}
	if t.EnablePollMS <= 0 {
		errs = append(errs, fmt.Errorf("timer.enable_poll_ms must be > 0"))
	}
	if t.KeyHoldWindowMS < 100 {
		errs = append(errs, fmt.Errorf("timer.key_hold_window_ms must be >= 100"))
	}
	if strings.TrimSpace(t.ActivationKey) == "" {
		errs = append(errs, fmt.Errorf("timer.activation_key must not be empty"))
	}
	if t.CancelKey != "" && t.CancelKey == t.ActivationKey {
		errs = append(errs, fmt.Errorf("timer.cancel_key must differ from timer.activation_key"))
	}

	if len(c.Contexts) == 0 {
		errs = append(errs, fmt.Errorf("at least one [[contexts]] entry is required"))
	}
	seen := make(map[string]bool, len(c.Contexts))
	for i, ctx := range c.Contexts {
		if strings.TrimSpace(ctx.ID) == "" {
			errs = append(errs, fmt.Errorf("contexts[%d].id must not be empty", i))
			continue
		}
		if seen[ctx.ID] {
			errs = append(errs, fmt.Errorf("contexts[%d].id %q is duplicated", i, ctx.ID))
		}
		seen[ctx.ID] = true
		if ctx.Attempts <= 0 {
			errs = append(errs, fmt.Errorf("contexts[%d].attempts must be > 0", i))
		}
		if _, err := scramble.Size(ctx.Puzzle); err != nil {
			errs = append(errs, fmt.Errorf("contexts[%d].puzzle %q is not a supported cube event", i, ctx.Puzzle))
		}
	}

	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, fmt.Errorf("store.path must not be empty"))
	}
	if c.Store.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("store.timeout_ms must be > 0"))
	}
	if c.Journal.Retention < 0 {
		errs = append(errs, fmt.Errorf("journal.retention must be >= 0 (0 = unlimited)"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a valid level", c.Log.Level))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Timer: TimerConfig{
			UseInspection:     false,
			InspectionSeconds: 15,
			GracePeriodMS:     1500,
			TickIntervalMS:    30,
			EnablePollMS:      200,
			KeyHoldWindowMS:   550,
			ActivationKey:     "space",
			CancelKey:         "ctrl+x",
		},
		Contexts: []ContextConfig{
			{ID: "333", Name: "3x3", Puzzle: "333", Attempts: 5},
			{ID: "222", Name: "2x2", Puzzle: "222", Attempts: 5},
			{ID: "444", Name: "4x4", Puzzle: "444", Attempts: 5},
			{ID: "333oh", Name: "3x3 One-Handed", Puzzle: "333oh", Attempts: 5},
			{ID: "333bf", Name: "3x3 Blindfolded", Puzzle: "333bf", Attempts: 3, Blind: true},
		},
		Store: StoreConfig{
			Path:      filepath.Join(".cubetimer", "timer.db"),
			TimeoutMS: 10000,
		},
		Journal: JournalConfig{
			Dir:       filepath.Join(".cubetimer", "sessions"),
			Retention: 20,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(".cubetimer", "cubetimer.log"),
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			URL:        "",
			OnComplete: true,
			OnError:    true,
			OnResult:   false,
		},
	}
}

// Load reads cubetimer.toml from the given path. If path is empty, it walks
// up from the current working directory looking for cubetimer.toml and
// returns ErrNotFound when there is none. Unknown keys (likely typos) are an
// error. Environment overrides are applied after decoding.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	// A file that declares [[contexts]] replaces the default list.
	cfg.Contexts = nil
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}
	if !meta.IsDefined("contexts") {
		cfg.Contexts = Defaults().Contexts
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from CUBETIMER_* environment variables.
// Variables that are unset leave the current value alone.
func (c *Config) ApplyEnv() error {
	o := envOverrides{
		StorePath:     c.Store.Path,
		JournalDir:    c.Journal.Dir,
		LogLevel:      c.Log.Level,
		LogFile:       c.Log.File,
		UseInspection: c.Timer.UseInspection,
		NotifyURL:     c.Notifications.URL,
	}
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	c.Store.Path = o.StorePath
	c.Journal.Dir = o.JournalDir
	c.Log.Level = o.LogLevel
	c.Log.File = o.LogFile
	c.Timer.UseInspection = o.UseInspection
	c.Notifications.URL = o.NotifyURL
	return nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for cubetimer.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, dir)
		}
		dir = parent
	}
}

// Context returns the context with the given id.
func (c *Config) Context(id string) (ContextConfig, bool) {
	for _, ctx := range c.Contexts {
		if ctx.ID == id {
			return ctx, true
		}
	}
	return ContextConfig{}, false
}

// ContextDefs converts the configured contexts into store definitions.
func (c *Config) ContextDefs() []store.ContextDef {
	defs := make([]store.ContextDef, len(c.Contexts))
	for i, ctx := range c.Contexts {
		name := ctx.Name
		if name == "" {
			name = ctx.ID
		}
		defs[i] = store.ContextDef{ID: ctx.ID, Name: name, Puzzle: ctx.Puzzle, Attempts: ctx.Attempts}
	}
	return defs
}

// AttemptSettings returns the clock settings. Blind contexts come from both
// timer.blind_contexts and contexts marked blind.
func (c *Config) AttemptSettings() attempt.Settings {
	blind := append([]string(nil), c.Timer.BlindContexts...)
	for _, ctx := range c.Contexts {
		if ctx.Blind {
			blind = append(blind, ctx.ID)
		}
	}
	return attempt.Settings{
		UseInspection:        c.Timer.UseInspection,
		InspectionSeconds:    c.Timer.InspectionSeconds,
		GracePeriod:          millis(c.Timer.GracePeriodMS),
		EnablePoll:           millis(c.Timer.EnablePollMS),
		NoInspectionContexts: blind,
	}
}

// DisplayOptions returns the readout preferences.
func (c *Config) DisplayOptions() display.Options {
	return display.Options{
		HideRunningTimer:   c.Timer.HideRunningTimer,
		HideInspectionTime: c.Timer.HideInspectionTime,
	}
}

// TickInterval returns the UI tick cadence.
func (c *Config) TickInterval() time.Duration { return millis(c.Timer.TickIntervalMS) }

// KeyHoldWindow returns the auto-repeat gap after which a key counts as
// released.
func (c *Config) KeyHoldWindow() time.Duration { return millis(c.Timer.KeyHoldWindowMS) }

// StoreTimeout returns the per-request persistence timeout.
func (c *Config) StoreTimeout() time.Duration { return millis(c.Store.TimeoutMS) }

func millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// InitFile writes a default cubetimer.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# cubetimer.toml - cubetimer configuration

[timer]
use_inspection = false
hide_running_timer = false
hide_inspection_time = false
inspection_seconds = 15
grace_period_ms = 1500    # inputs stay off this long after a completed solve
tick_interval_ms = 30     # readout refresh cadence
enable_poll_ms = 200      # retry interval while the activation key is still held
key_hold_window_ms = 550  # key counts as released after this long without auto-repeat
activation_key = "space"
cancel_key = "ctrl+x"
blind_contexts = []       # contexts that never use inspection

[[contexts]]
id = "333"
name = "3x3"
puzzle = "333"
attempts = 5

[[contexts]]
id = "222"
name = "2x2"
puzzle = "222"
attempts = 5

[[contexts]]
id = "444"
name = "4x4"
puzzle = "444"
attempts = 5

[[contexts]]
id = "333oh"
name = "3x3 One-Handed"
puzzle = "333oh"
attempts = 5

[[contexts]]
id = "333bf"
name = "3x3 Blindfolded"
puzzle = "333bf"
attempts = 3
blind = true

[store]
path = ".cubetimer/timer.db"
timeout_ms = 10000

[journal]
dir = ".cubetimer/sessions"
retention = 20            # number of session logs to keep; 0 = unlimited

[log]
level = "info"
file = ".cubetimer/cubetimer.log"

[tui]
accent_color = "#7D56F4"

[notifications]
url = ""           # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_complete = true # notify when a context is complete
on_error = true    # notify when saving a result fails
on_result = false  # notify on every result
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
