package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	envWorkDir     = "PACKFIX_WORK_DIR"
	envLogLevel    = "PACKFIX_LOG_LEVEL"
	envLogFile     = "PACKFIX_LOG_FILE"
	envHistorySize = "PACKFIX_HISTORY_SIZE"
)

// ModelConfig describes how model-definition entries are recognized
// inside an archive.
type ModelConfig struct {
	DirMark string `yaml:"dir_mark"`
	Ext     string `yaml:"ext"`
}

// Target reports whether an entry name points at a model-definition file.
func (c ModelConfig) Target(name string) bool {
	return strings.Contains(name, c.DirMark) && strings.HasSuffix(name, c.Ext)
}

type PatcherConfig struct {
	BackupPrefix string `yaml:"backup_prefix"`
	TempSuffix   string `yaml:"temp_suffix"`
}

type UIConfig struct {
	HistorySize int `yaml:"history_size"`
	NameWidth   int `yaml:"name_width"`
	BarWidth    int `yaml:"bar_width"`
}

type Config struct {
	WorkDir  string        `yaml:"work_dir"`
	LogLevel string        `yaml:"log_level"`
	LogFile  string        `yaml:"log_file"`
	Model    ModelConfig   `yaml:"model"`
	Patcher  PatcherConfig `yaml:"patcher"`
	UI       UIConfig      `yaml:"ui"`
}

func (c *Config) SetDefaults() {
	c.WorkDir = "."
	c.LogLevel = LogLevelInfo
	c.Model.DirMark = "models/item/"
	c.Model.Ext = ".json"
	c.Patcher.BackupPrefix = "backup_"
	c.Patcher.TempSuffix = ".tmp"
	c.UI.HistorySize = 10
	c.UI.NameWidth = 50
	c.UI.BarWidth = 40
}

// MustLoad builds the configuration from defaults, an optional yaml file
// and PACKFIX_* environment variables, in that order. The tool must be
// runnable with no arguments, so a missing config file is not an error.
func MustLoad(fileName string) *Config {
	cfg := &Config{}
	cfg.SetDefaults()

	_ = godotenv.Load()

	if fileName != "" {
		data, err := os.ReadFile(fileName)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(fmt.Errorf("cannot parse config file %s: %w", fileName, err))
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			panic(fmt.Errorf("cannot read config file %s: %w", fileName, err))
		}
	}

	if v := os.Getenv(envWorkDir); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(envHistorySize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("cannot parse %s: %w", envHistorySize, err))
		}
		cfg.UI.HistorySize = n
	}

	return cfg
}
