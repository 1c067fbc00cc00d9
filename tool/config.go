package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hiakki/GhumaggerSnap/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		MediaRoot:        "media",
		ThumbRoot:        "thumbnails",
		UsersFile:        "users.yaml",
		WebOut:           "web/dist",
		Port:             8000,
		JWTSecret:        "", // generated on first run
		TokenExpireHours: 72,
		ThumbMaxSize:     400,
		ThumbQuality:     85,
		ChunkSizeBytes:   1 << 20,
	}
}

// LoadConfig reads the YAML config at path, creating it with defaults on
// first run. A missing jwtSecret is generated and persisted so tokens
// survive restarts.
func LoadConfig(path string) (types.AppConfig, error) {
	var configChanged bool
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.JWTSecret = GenerateRandomSecret()
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file with generated token secret")
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = GenerateRandomSecret()
		DefaultLogger.Infof("Generated token secret")
		configChanged = true
	}
	if cfg.ThumbMaxSize <= 0 {
		cfg.ThumbMaxSize = defaultConfig().ThumbMaxSize
	}
	if cfg.ThumbQuality <= 0 || cfg.ThumbQuality > 100 {
		cfg.ThumbQuality = defaultConfig().ThumbQuality
	}
	if cfg.ChunkSizeBytes <= 0 {
		cfg.ChunkSizeBytes = defaultConfig().ChunkSizeBytes
	}
	if cfg.TokenExpireHours <= 0 {
		cfg.TokenExpireHours = defaultConfig().TokenExpireHours
	}

	if configChanged {
		if writeErr := writeConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("Failed to update config file: %v", writeErr)
		}
	}

	CurrentConfig = cfg
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
