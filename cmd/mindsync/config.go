package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		HTTPURL string `yaml:"http_url"`
		WSURL   string `yaml:"ws_url"`
	} `yaml:"server"`
	Session struct {
		ResultGateSeconds   int     `yaml:"result_gate_seconds"`
		NotificationSeconds int     `yaml:"notification_seconds"`
		SwipeThreshold      float64 `yaml:"swipe_threshold"`
	} `yaml:"session"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the optional yaml config and applies environment
// overrides on top. Missing file means defaults.
func loadConfig(path string) (*Config, error) {
	var config Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if config.Server.HTTPURL == "" {
		config.Server.HTTPURL = "http://localhost:8080"
	}
	if config.Server.WSURL == "" {
		config.Server.WSURL = "ws://localhost:8080/ws"
	}
	if config.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		config.Storage.Path = filepath.Join(home, ".mindsync", "state.db")
	}

	config.Server.HTTPURL = getEnv("MINDSYNC_HTTP_URL", config.Server.HTTPURL)
	config.Server.WSURL = getEnv("MINDSYNC_WS_URL", config.Server.WSURL)
	config.Storage.Path = getEnv("MINDSYNC_STATE_PATH", config.Storage.Path)
	config.Session.ResultGateSeconds = getEnvAsInt("MINDSYNC_RESULT_GATE_SECONDS", config.Session.ResultGateSeconds)
	config.Session.NotificationSeconds = getEnvAsInt("MINDSYNC_NOTIFICATION_SECONDS", config.Session.NotificationSeconds)

	return &config, nil
}
