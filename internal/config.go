package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/cosense-mcp/internal/mcpserver"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

var (
	projectNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	hostRe        = regexp.MustCompile(`^[A-Za-z0-9.-]+(:[0-9]+)?$`)
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Cosense CosenseConfig     `yaml:"cosense"`
	Tools   ToolsConfig       `yaml:"tools"`
	Journal JournalConfig     `yaml:"journal"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Cosense.Validate(); err != nil {
		return fmt.Errorf("cosense: %w", err)
	}
	if err := c.Tools.Validate(); err != nil {
		return fmt.Errorf("tools: %w", err)
	}
	return c.Auth.Validate()
}

// ApplyEnv overrides file values with the SCRAPBOX_* variables returned by lookup.
// Unset variables leave the file value alone.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("SCRAPBOX_PROJECT"); ok && v != "" {
		c.Cosense.Project = v
	}
	if v, ok := lookup("SCRAPBOX_COOKIE"); ok && v != "" {
		c.Cosense.Cookie = v
	}
	if v, ok := lookup("SCRAPBOX_ENABLE_DELETE"); ok {
		c.Tools.EnableDelete = v == "true"
	}
	if v, ok := lookup("SCRAPBOX_PRESET"); ok && v != "" {
		c.Tools.Preset = v
	}
	if v, ok := lookup("SCRAPBOX_TOOLS"); ok && v != "" {
		c.Tools.Enabled = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	Transport string     `yaml:"transport"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
	); err != nil {
		return err
	}
	if c.Transport != TransportHTTP {
		return nil
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CosenseConfig identifies the project and the session used against it.
type CosenseConfig struct {
	Project string `yaml:"project"`
	Cookie  string `yaml:"cookie"`
	Host    string `yaml:"host"`
}

// Validate validates the Cosense configuration.
func (c *CosenseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Project, validation.Required, validation.Match(projectNameRe)),
		validation.Field(&c.Cookie, validation.Required),
		validation.Field(&c.Host, validation.Required, validation.Match(hostRe)),
	)
}

// BaseURL returns the browser origin page URLs are built from.
func (c *CosenseConfig) BaseURL() string {
	return "https://" + c.Host
}

// ToolsConfig selects the MCP tools to expose.
//
// Enabled, when non-empty, wins over Preset. delete_page is only exposed when
// EnableDelete is set, whichever way it was selected.
type ToolsConfig struct {
	Preset       string   `yaml:"preset"`
	Enabled      []string `yaml:"enabled"`
	EnableDelete bool     `yaml:"enable_delete"`
}

// Validate validates the tool selection. An unknown preset is not an error; it
// falls back to the full preset.
func (c *ToolsConfig) Validate() error {
	known := make([]any, len(mcpserver.AllTools))
	for i, name := range mcpserver.AllTools {
		known[i] = name
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Enabled, validation.Each(validation.Required, validation.In(known...))),
	)
}

// Resolve returns the tool names to register.
func (c *ToolsConfig) Resolve() []string {
	return mcpserver.ResolveTools(c.Preset, c.Enabled, c.EnableDelete)
}

// JournalConfig holds the write journal database path. An empty path disables the
// journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether writes are journaled.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// AuthConfig holds HTTP transport authentication.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			Transport: TransportStdio,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Cosense: CosenseConfig{
			Host: "scrapbox.io",
		},
		Tools: ToolsConfig{
			Preset: mcpserver.PresetFull,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
