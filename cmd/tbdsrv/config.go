package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
	errBufferSizeTooSmall = errors.New("buffer_size must be larger than the store header")
	errHunkGranuleZero    = errors.New("hunk_granule cannot be zero")
)

// ConfigFileName is the default project config file name.
const ConfigFileName = ".tbdsrv.json"

// Config holds every option a server invocation needs, independent of
// where it came from.
type Config struct {
	BufferSize  int    `json:"buffer_size"`
	HunkGranule uint32 `json:"hunk_granule"`
	DumpPath    string `json:"dump_path,omitempty"`
}

// DefaultConfig returns the configuration used when nothing else
// overrides it.
func DefaultConfig() Config {
	return Config{
		BufferSize:  1 << 20,
		HunkGranule: 8,
		DumpPath:    "tbd.dump.json",
	}
}

// ConfigSources records which config files, if any, contributed to a
// loaded Config.
type ConfigSources struct {
	Global  string
	Project string
}

func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "tbdsrv", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tbdsrv", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "tbdsrv", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest
// wins): defaults, global user config, project config file (or an
// explicit path via configPath), then CLI flag overrides, which the
// caller applies to the returned Config.
func LoadConfig(workDir, configPath string, env []string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalCfg, globalPath, err := loadOptionalConfig(getGlobalConfigPath(env))
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	var projectPath string

	var mustExist bool

	if configPath != "" {
		projectPath = configPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true
	} else {
		projectPath = filepath.Join(workDir, ConfigFileName)
	}

	projectCfg, loadedPath, err := loadConfigFile(projectPath, mustExist)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Project = loadedPath
	cfg = mergeConfig(cfg, projectCfg)

	if err := validateConfig(cfg); err != nil {
		return Config{}, ConfigSources{}, err
	}

	return cfg, sources, nil
}

func loadOptionalConfig(path string) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	return loadConfigFile(path, false)
}

func loadConfigFile(path string, mustExist bool) (cfg Config, loadedPath string, err error) {
	data, readErr := os.ReadFile(path) //nolint:gosec // path is caller-controlled by design
	if readErr != nil {
		if os.IsNotExist(readErr) && !mustExist {
			return Config{}, "", nil
		}

		if mustExist {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, "", nil
	}

	standardized, standardizeErr := hujson.Standardize(data)
	if standardizeErr != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, standardizeErr)
	}

	if unmarshalErr := json.Unmarshal(standardized, &cfg); unmarshalErr != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, unmarshalErr)
	}

	return cfg, path, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.BufferSize != 0 {
		base.BufferSize = overlay.BufferSize
	}

	if overlay.HunkGranule != 0 {
		base.HunkGranule = overlay.HunkGranule
	}

	if overlay.DumpPath != "" {
		base.DumpPath = overlay.DumpPath
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.BufferSize <= tbdHeaderSize {
		return fmt.Errorf("%w: got %d", errBufferSizeTooSmall, cfg.BufferSize)
	}

	if cfg.HunkGranule == 0 {
		return errHunkGranuleZero
	}

	return nil
}

// FormatConfig renders cfg as indented JSON, for the "config" REPL
// command and for diagnostics.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
