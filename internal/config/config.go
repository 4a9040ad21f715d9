// Package config resolves inv's configuration from defaults, JSONC files,
// environment variables and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/tailscale/hujson"

	"github.com/Yizune/Inventory-Manager/internal/kv"
)

// Error variables for configuration.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrUnknownBackend     = errors.New("unknown backend")
	ErrIconSizeNegative   = errors.New("icon-size cannot be negative")
	ErrEnvInvalid         = errors.New("invalid environment")
)

// Config holds all configuration options.
type Config struct {
	// From config files and environment (serialized)
	DataDir       string `json:"data_dir"       env:"INV_DATA_DIR"`
	Backend       string `json:"backend"        env:"INV_BACKEND"`
	ListenAddr    string `json:"listen_addr"    env:"INV_LISTEN_ADDR"`
	AllowedOrigin string `json:"allowed_origin" env:"INV_ALLOWED_ORIGIN"`
	IconDir       string `json:"icon_dir"       env:"INV_ICON_DIR"`
	IconSize      int    `json:"icon_size"      env:"INV_ICON_SIZE"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"`
	DataDirAbs   string `json:"-"`
	IconDirAbs   string `json:"-"`

	// Sources tracks where values came from (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config inputs were applied.
type Sources struct {
	Global  string   // Path to global config if loaded, empty otherwise
	Project string   // Path to project config if loaded, empty otherwise
	Env     []string // Names of INV_* variables that were set
}

// envNames lists the variables read from the environment, in display order.
var envNames = []string{
	"INV_DATA_DIR", "INV_BACKEND", "INV_LISTEN_ADDR",
	"INV_ALLOWED_ORIGIN", "INV_ICON_DIR", "INV_ICON_SIZE",
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:       ".inventory",
		Backend:       kv.BackendFile,
		ListenAddr:    "127.0.0.1:8080",
		AllowedOrigin: "http://localhost:5173",
		IconDir:       "assets",
	}
}

// FileName is the project config file name.
const FileName = ".inv.json"

// globalPath returns $XDG_CONFIG_HOME/inv/config.json or
// ~/.config/inv/config.json, or "" if neither base is known.
func globalPath(environ map[string]string) string {
	if xdgConfig := environ["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "inv", "config.json")
	}

	if home := environ["HOME"]; home != "" {
		return filepath.Join(home, ".config", "inv", "config.json")
	}

	return ""
}

// Overrides holds values set by command-line flags. Empty fields do not
// override.
type Overrides struct {
	DataDir    string
	Backend    string
	ListenAddr string
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Overrides         // other flag values
	Env             map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config (.inv.json) or the explicit -c file
// 4. INV_* environment variables
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	globalCfg, path, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = path
	cfg = merge(cfg, globalCfg)

	projectCfg, path, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = path
	cfg = merge(cfg, projectCfg)

	envCfg, names, err := loadEnv(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Env = names
	cfg = merge(cfg, envCfg)

	cfg = merge(cfg, Config{
		DataDir:    input.Overrides.DataDir,
		Backend:    input.Overrides.Backend,
		ListenAddr: input.Overrides.ListenAddr,
	})

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = absFrom(workDir, cfg.DataDir)
	cfg.IconDirAbs = absFrom(workDir, cfg.IconDir)

	return cfg, nil
}

func absFrom(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

func loadGlobal(environ map[string]string) (Config, string, error) {
	path := globalPath(environ)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads .inv.json from workDir, or configPath if given. An
// explicit file must exist.
func loadProject(workDir, configPath string) (Config, string, error) {
	cfgFile := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		cfgFile = absFrom(workDir, configPath)
		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	cfg, loaded, err := loadFile(cfgFile, mustExist)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, cfgFile, nil
}

// loadFile loads a config file. If mustExist is false, a missing file returns
// a zero config and loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "data_dir": "" is a mistake, not a request for the default.
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, exists := raw["data_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			return Config{}, ErrDataDirEmpty
		}
	}

	return cfg, nil
}

// loadEnv reads INV_* variables from environ, never from the process
// environment, so tests and callers control it fully.
func loadEnv(environ map[string]string) (Config, []string, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	var cfg Config

	err := env.ParseWithOptions(&cfg, env.Options{Environment: environ})
	if err != nil {
		return Config{}, nil, fmt.Errorf("%w: %w", ErrEnvInvalid, err)
	}

	var names []string

	for _, name := range envNames {
		if _, ok := environ[name]; ok {
			names = append(names, name)
		}
	}

	return cfg, names, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.ListenAddr != "" {
		base.ListenAddr = overlay.ListenAddr
	}

	if overlay.AllowedOrigin != "" {
		base.AllowedOrigin = overlay.AllowedOrigin
	}

	if overlay.IconDir != "" {
		base.IconDir = overlay.IconDir
	}

	if overlay.IconSize != 0 {
		base.IconSize = overlay.IconSize
	}

	return base
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if !kv.IsBackend(cfg.Backend) {
		return fmt.Errorf("%w: %q (want one of %v)", ErrUnknownBackend, cfg.Backend, kv.Backends())
	}

	if cfg.IconSize < 0 {
		return ErrIconSizeNegative
	}

	return nil
}
