package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/joho/godotenv"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
)

const (
	DefaultConfigPath     = "/etc/vscs-farm/config.toml"
	DefaultListen         = "127.0.0.1:3030"
	DefaultContainerURL   = "http://localhost:{port}/?tkn={token}"
	DefaultDataDir        = "/opt/vscs-farm"
	DefaultImage          = "gitpod/openvscode-server"
	DefaultInternalPort   = 3000
	DefaultWorkspacePath  = "/home/workspace"
	DefaultRuntimeTimeout = 60 * time.Second
	DefaultIdentityHeader = "X-Forwarded-Access-Token"

	PortPlaceholder  = "{port}"
	TokenPlaceholder = "{token}"
)

// Identity modes
const (
	IdentityHeader = "header"
	IdentityHMAC   = "hmac"
)

// userIDRegex restricts user ids to characters that are safe in a
// container name, a path segment and a command argument. Docker names allow
// [a-zA-Z0-9][a-zA-Z0-9_.-]; 63 keeps "vscs-"+id under common name limits.
var userIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,62}$`)

// ValidateUserID checks that a user id can be embedded in a workspace name
// and a data directory path.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	if !userIDRegex.MatchString(userID) {
		return fmt.Errorf("invalid user id %q: must start with a letter or digit, contain only letters, digits, underscores, dots, or hyphens, and be at most 63 characters", userID)
	}

	if strings.Contains(userID, "..") {
		return fmt.Errorf("invalid user id %q: must not contain '..'", userID)
	}

	return nil
}

// Config is the runtime configuration of the farm.
type Config struct {
	Listen           string        `toml:"listen"`
	ContainerURL     string        `toml:"container_url"`
	DataDir          string        `toml:"data_dir"`
	Image            string        `toml:"image"`
	Runtime          string        `toml:"runtime"`
	InternalPort     int           `toml:"internal_port"`
	WorkspacePath    string        `toml:"workspace_path"`
	RuntimeTimeout   time.Duration `toml:"runtime_timeout"`
	LockDir          string        `toml:"lock_dir"`  // empty disables the per-user lease
	StateDir         string        `toml:"state_dir"` // empty disables the audit log
	IdentityMode     string        `toml:"identity_mode"`
	IdentityHeader   string        `toml:"identity_header"`
	HMACSecret       string        `toml:"hmac_secret"`
	CleanupOnFailure bool          `toml:"cleanup_on_failure"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:           DefaultListen,
		ContainerURL:     DefaultContainerURL,
		DataDir:          DefaultDataDir,
		Image:            DefaultImage,
		Runtime:          "auto",
		InternalPort:     DefaultInternalPort,
		WorkspacePath:    DefaultWorkspacePath,
		RuntimeTimeout:   DefaultRuntimeTimeout,
		IdentityMode:     IdentityHeader,
		IdentityHeader:   DefaultIdentityHeader,
		CleanupOnFailure: true,
	}
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}

	if !strings.Contains(c.ContainerURL, PortPlaceholder) || !strings.Contains(c.ContainerURL, TokenPlaceholder) {
		return fmt.Errorf("container url %q must contain %s and %s", c.ContainerURL, PortPlaceholder, TokenPlaceholder)
	}

	if !filepath.IsAbs(c.DataDir) {
		return fmt.Errorf("data dir must be an absolute path (got %q)", c.DataDir)
	}

	if c.Image == "" {
		return fmt.Errorf("image is required")
	}

	validRuntimes := map[string]bool{"auto": true, "docker": true, "podman": true}
	if !validRuntimes[c.Runtime] {
		return fmt.Errorf("invalid runtime: %s (must be auto, docker, or podman)", c.Runtime)
	}

	if c.InternalPort < 1 || c.InternalPort > 65535 {
		return fmt.Errorf("internal port must be between 1 and 65535 (got %d)", c.InternalPort)
	}

	if !filepath.IsAbs(c.WorkspacePath) {
		return fmt.Errorf("workspace path must be an absolute path (got %q)", c.WorkspacePath)
	}

	if c.RuntimeTimeout <= 0 {
		return fmt.Errorf("runtime timeout must be positive (got %s)", c.RuntimeTimeout)
	}

	switch c.IdentityMode {
	case IdentityHeader:
	case IdentityHMAC:
		if c.HMACSecret == "" {
			return fmt.Errorf("hmac_secret is required when identity_mode is %q", IdentityHMAC)
		}
	default:
		return fmt.Errorf("invalid identity mode: %s (must be header or hmac)", c.IdentityMode)
	}

	if c.IdentityHeader == "" {
		return fmt.Errorf("identity header is required")
	}

	return nil
}

// UserDataDir returns the host directory mounted as the workspace of
// userID. The join is resolved with securejoin so the result always stays
// inside DataDir.
func (c *Config) UserDataDir(userID string) (string, error) {
	if err := ValidateUserID(userID); err != nil {
		return "", err
	}
	return securejoin.SecureJoin(c.DataDir, userID)
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigPath is a TOML file. When empty, DefaultConfigPath is read if it exists.
	ConfigPath string

	// EnvFile is a dotenv file whose variables are added to the environment
	// without overriding variables that are already set.
	EnvFile string

	// LookupEnv overrides os.LookupEnv (tests).
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration from defaults, the TOML file, the dotenv
// file and the environment, in increasing order of precedence. Command-line
// flags are applied by the caller afterwards.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			logging.Warn("unknown config key", "file", path, "key", key.String())
		}
		logging.Debug("loaded config file", "path", path)
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
		logging.Debug("loaded env file", "path", opts.EnvFile)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strVars := map[string]*string{
		"LISTEN":               &c.Listen,
		"CONTAINER_URL":        &c.ContainerURL,
		"DATA_DIR":             &c.DataDir,
		"IMAGE_NAME":           &c.Image,
		"VSCS_RUNTIME":         &c.Runtime,
		"VSCS_WORKSPACE_PATH":  &c.WorkspacePath,
		"VSCS_LOCK_DIR":        &c.LockDir,
		"VSCS_STATE_DIR":       &c.StateDir,
		"VSCS_IDENTITY_MODE":   &c.IdentityMode,
		"VSCS_IDENTITY_HEADER": &c.IdentityHeader,
		"VSCS_HMAC_SECRET":     &c.HMACSecret,
	}
	for name, field := range strVars {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup("VSCS_INTERNAL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VSCS_INTERNAL_PORT %q: %w", v, err)
		}
		c.InternalPort = port
	}

	if v, ok := lookup("VSCS_RUNTIME_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VSCS_RUNTIME_TIMEOUT %q: %w", v, err)
		}
		c.RuntimeTimeout = d
	}

	if v, ok := lookup("VSCS_CLEANUP_ON_FAILURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VSCS_CLEANUP_ON_FAILURE %q: %w", v, err)
		}
		c.CleanupOnFailure = b
	}

	return nil
}
