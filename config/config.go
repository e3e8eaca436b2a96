package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the optional config file looked up in the working directory.
const ConfigName = "scaff-config"

// EnvPrefix prefixes every environment variable scaff reads.
const EnvPrefix = "SCAFF"

// Config represents the structure of the configuration file
type Config struct {
	Version      string `mapstructure:"version"`
	StoreDir     string `mapstructure:"store_dir"`
	TemplatesDir string `mapstructure:"templates_dir"`
	EnableCache  bool   `mapstructure:"enable_cache"`
	CacheDir     string `mapstructure:"cache_dir"`
	Theme        string `mapstructure:"theme"`
	Verbose      bool   `mapstructure:"verbose"`

	// ConfigFile is the file the values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:      "0.3.0",
	StoreDir:     "scaffs",
	TemplatesDir: "templates",
	EnableCache:  false,
	CacheDir:     ".cache",
	Theme:        "dracula",
	Verbose:      false,
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// settings lists every key with its flag name and environment variable suffix.
var settings = []string{"store_dir", "templates_dir", "enable_cache", "cache_dir", "theme", "verbose"}

// LoadConfigs resolves the configuration for cwd. Later sources win: defaults, the
// config file, .env, SCAFF_* environment variables, then flags that were set.
// Relative directories are resolved against cwd.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if t := GetConfigFileType(cfgFile); t != "" {
			v.SetConfigType(t)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(GetConfigFileType(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if rootCmd != nil {
		if err := bindFlags(v, rootCmd); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()
	config.StoreDir = resolve(cwd, config.StoreDir)
	config.TemplatesDir = resolve(cwd, config.TemplatesDir)
	config.CacheDir = resolve(cwd, config.CacheDir)
	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("store_dir", DefaultConfig.StoreDir)
	v.SetDefault("templates_dir", DefaultConfig.TemplatesDir)
	v.SetDefault("enable_cache", DefaultConfig.EnableCache)
	v.SetDefault("cache_dir", DefaultConfig.CacheDir)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("verbose", DefaultConfig.Verbose)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	for _, key := range settings {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key))
	}
}

// bindFlags binds the CLI flags to configuration values. Unset flags keep the
// lower-priority value.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) error {
	for _, key := range settings {
		flag := rootCmd.PersistentFlags().Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().String("store_dir", DefaultConfig.StoreDir, "Directory holding snapshot documents.")
	rootCmd.PersistentFlags().String("templates_dir", DefaultConfig.TemplatesDir, "Directory with *.tmpl files overriding the built-in templates.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Cache fingerprints between runs.")
	rootCmd.PersistentFlags().String("cache_dir", DefaultConfig.CacheDir, "Directory of the fingerprint cache.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Highlighting theme for previews (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().Bool("verbose", DefaultConfig.Verbose, "Log debug output to stderr.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// findConfigFile returns the first scaff-config file present in dir.
func findConfigFile(dir string) string {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, ConfigName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func resolve(cwd, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(cwd, dir)
}
