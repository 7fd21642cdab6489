package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config resolves where the FormAi backend lives and where local client
// state (remembered identity, recorded clips, analysis history) is kept.
type Config struct {
	APIBaseURL string
	StateDir   string
	ClipDir    string
	DBPath     string
}

type fileConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
}

// New resolves configuration in ascending precedence: built-in defaults,
// <stateDir>/config.yaml, then environment (with an optional .env file).
// The backend address is never hardcoded past the default loopback.
func New(stateDir string) (Config, error) {
	_ = godotenv.Load()

	if env := os.Getenv("FORMAI_STATE_DIR"); env != "" {
		stateDir = env
	}
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".formai")
	}

	cfg := Config{
		APIBaseURL: "http://127.0.0.1:8000",
		StateDir:   stateDir,
		ClipDir:    filepath.Join(stateDir, "clips"),
		DBPath:     filepath.Join(stateDir, "formai.db"),
	}

	fromFile, err := loadFile(filepath.Join(stateDir, "config.yaml"))
	if err != nil {
		return Config{}, err
	}
	if fromFile.APIBaseURL != "" {
		cfg.APIBaseURL = fromFile.APIBaseURL
	}

	if url := os.Getenv("FORMAI_API_URL"); url != "" {
		cfg.APIBaseURL = url
	} else if host := os.Getenv("FORMAI_API_HOST"); host != "" {
		port := os.Getenv("FORMAI_API_PORT")
		if port == "" {
			port = "8000"
		}
		cfg.APIBaseURL = "http://" + host + ":" + port
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("unmarshal config file: %w", err)
	}
	return fc, nil
}
