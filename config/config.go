// Package config - layered configuration: defaults, YAML file, environment.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nvr-ai/go-pest/detector"
	"github.com/nvr-ai/go-pest/inference/providers"
	"github.com/nvr-ai/go-pest/logger"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvFile is the dotenv file read from the executable's directory.
const EnvFile = ".env"

// Config is the full application configuration.
type Config struct {
	Detector detector.Config `json:"detector" yaml:"detector"`
	Log      logger.Config   `json:"log"      yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Detector: detector.DefaultConfig(),
		Log:      logger.DefaultConfig(),
	}
}

// Load overlays the YAML file at path onto the defaults. Unknown keys are
// rejected. A relative model_path is resolved against the file's directory.
//
// Arguments:
//   - path: The YAML file.
//
// Returns:
//   - Config: The merged configuration.
//   - error: If the file cannot be read or parsed.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, pkgerrors.Wrapf(err, "failed to read config %s", path)
	}

	defaultModel := cfg.Detector.ModelPath
	cfg.Detector.ModelPath = ""

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, pkgerrors.Wrapf(err, "failed to parse config %s", path)
	}

	switch {
	case cfg.Detector.ModelPath == "":
		cfg.Detector.ModelPath = defaultModel
	case !filepath.IsAbs(cfg.Detector.ModelPath):
		cfg.Detector.ModelPath = filepath.Join(filepath.Dir(path), cfg.Detector.ModelPath)
	}

	return cfg, nil
}

// LoadEnvFile loads .env from dir into the process environment. Variables
// already set are kept. A missing file is not an error.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return pkgerrors.Wrapf(godotenv.Load(path), "failed to load %s", path)
}

// ApplyEnv applies environment overrides to the configuration.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(detector.ModelPathEnv); v != "" {
		c.Detector.ModelPath = v
	}
	if v := os.Getenv(logger.LevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(providers.SharedLibraryEnv); v != "" {
		c.Detector.Runtime.LibraryPath = v
	}
}
