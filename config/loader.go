package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a command.
// Returns explicit paths if provided, otherwise searches the working directory.
func (cr *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findFirst(configSearchPaths(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findFirst([]string{".env." + name, ".env"})
	}

	return resolved
}

func (cr *Resolver) findFirst(candidates []string) string {
	wd, err := cr.FileSystem.Getwd()
	if err != nil {
		wd = "."
	}
	for _, rel := range candidates {
		path := filepath.Join(wd, rel)
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

func configSearchPaths(name string) []string {
	return []string{
		"." + name + ".yml",
		"." + name + ".yaml",
		name + ".yml",
		name + ".yaml",
		filepath.Join("config", name+".yml"),
		filepath.Join("config", "config.yml"),
	}
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional, must exist when set)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Only variables with this prefix are read
	Flags      *pflag.FlagSet
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix restricts environment binding to variables named PREFIX_*.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.TrimSuffix(strings.ToUpper(prefix), "_") }
}

// WithFlags binds a parsed flag set; flags set on the command line take
// precedence over every other source.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(lc *LoaderConfig) { lc.Flags = fs }
}

// LoadConfig loads configuration for a command into the provided cfg struct.
func LoadConfig(name string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return fmt.Errorf("config file not found: %s", lc.ConfigFile)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	return loadFromResolvedFiles(name, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(name string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	// 1. YAML config (base layer)
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	// 2. .env file feeds the process environment; existing variables win
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", files.EnvFile, err)
		}
	}

	// 3. Environment variables
	if err := bindEnvVars(v, lc.EnvPrefix, os.Environ()); err != nil {
		return err
	}

	// 4. Command-line flags
	if lc.Flags != nil {
		if err := bindFlags(v, lc.Flags); err != nil {
			return err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for %s: %w", name, err)
	}

	return nil
}

// bindFlags binds every flag under its underscore-separated key.
// Viper only lets a flag override lower layers when it was set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		if err := v.BindPFlag(FlagKey(f.Name), f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// FlagKey converts a flag name to its configuration key.
func FlagKey(flagName string) string {
	return strings.ReplaceAll(flagName, "-", "_")
}

// nestedSections are the configuration keys that hold a struct. Only
// variables naming one of them map to a dotted key; every other variable is
// a flat key, whatever underscores it contains.
var nestedSections = []string{"logging", "telemetry"}

// bindEnvVars binds every PREFIX_* variable to the key it denotes.
// Without a prefix nothing is bound.
func bindEnvVars(v *viper.Viper, prefix string, environ []string) error {
	if prefix == "" {
		return nil
	}
	for _, env := range environ {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key, ok := strings.CutPrefix(pair[0], prefix+"_")
		if !ok || key == "" {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key) {
			if err := v.BindEnv(variant, pair[0]); err != nil {
				return fmt.Errorf("failed to bind env %s: %w", pair[0], err)
			}
		}
	}
	return nil
}

// generateEnvKeyVariants returns the configuration keys an environment
// variable name, prefix removed, may denote. A bare section name denotes
// nothing since a scalar cannot replace a struct.
// Examples:
//
//	KMER_SIZE             -> [kmer_size]
//	THREADS_FROM_FILE     -> [threads_from_file]
//	LOGGING_LEVEL         -> [logging.level]
//	TELEMETRY_SAMPLE_RATE -> [telemetry.sample_rate]
//	LOGGING               -> []
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)

	for _, section := range nestedSections {
		if lowerKey == section {
			return nil
		}
		if rest, ok := strings.CutPrefix(lowerKey, section+"_"); ok && rest != "" {
			return []string{section + "." + rest}
		}
	}

	return []string{lowerKey}
}
