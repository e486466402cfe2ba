// Package config loads bridge configuration the way the teacher loads
// device configuration: a .env file discovered by walking up from the
// working directory, overridden by environment variables of the same name.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds everything cmd/bridge needs to wire up the core components
// against real transports.
type Config struct {
	PrimaryPort   string
	LogPort       string
	BaudRate      int
	ButtonGPIOPin string
	HTTPListen    string
	USBTargetVID  uint16
	USBTargetPID  uint16
}

func defaults() *Config {
	return &Config{
		PrimaryPort:   "/dev/ttyUSB0",
		LogPort:       "/dev/ttyUSB1",
		BaudRate:      115200,
		ButtonGPIOPin: "GPIO17",
		HTTPListen:    "127.0.0.1:8090",
		USBTargetVID:  0x1209,
		USBTargetPID:  0xBEEF,
	}
}

var (
	loaded *Config
)

// Load reads .env (if present) and environment variables into a Config,
// caching the result the same way the teacher's LoadDeviceConfig does.
func Load() (*Config, error) {
	if loaded != nil {
		return loaded, nil
	}

	cfg := defaults()

	envPath := filepath.Join(findProjectRoot(), ".env")
	if data, err := os.ReadFile(envPath); err == nil {
		parseEnvFile(string(data), cfg)
	}

	applyEnv(cfg)

	loaded = cfg
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRIMARY_PORT"); v != "" {
		cfg.PrimaryPort = v
	}
	if v := os.Getenv("LOG_PORT"); v != "" {
		cfg.LogPort = v
	}
	if v := os.Getenv("BAUD_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BaudRate = n
		}
	}
	if v := os.Getenv("BUTTON_GPIO_PIN"); v != "" {
		cfg.ButtonGPIOPin = v
	}
	if v := os.Getenv("HTTP_LISTEN_ADDR"); v != "" {
		cfg.HTTPListen = v
	}
	if v := os.Getenv("USB_TARGET_VID"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 16); err == nil {
			cfg.USBTargetVID = uint16(n)
		}
	}
	if v := os.Getenv("USB_TARGET_PID"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 16); err == nil {
			cfg.USBTargetPID = uint16(n)
		}
	}
}

func parseEnvFile(content string, cfg *Config) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "PRIMARY_PORT":
			cfg.PrimaryPort = value
		case "LOG_PORT":
			cfg.LogPort = value
		case "BAUD_RATE":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.BaudRate = n
			}
		case "BUTTON_GPIO_PIN":
			cfg.ButtonGPIOPin = value
		case "HTTP_LISTEN_ADDR":
			cfg.HTTPListen = value
		case "USB_TARGET_VID":
			if n, err := strconv.ParseUint(value, 0, 16); err == nil {
				cfg.USBTargetVID = uint16(n)
			}
		case "USB_TARGET_PID":
			if n, err := strconv.ParseUint(value, 0, 16); err == nil {
				cfg.USBTargetPID = uint16(n)
			}
		}
	}
}

func findProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".env")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}
