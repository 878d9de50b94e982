package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sixpmaster/adapters/myredis"
	"sixpmaster/adapters/udp"
	"sixpmaster/domain"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envConfigPath         = "CONFIG_PATH"
	envUDPPort            = "SERVICE_PORT_UDP"
	envHTTPPort           = "SERVICE_PORT_HTTP"
	envGRPCPort           = "SERVICE_PORT_GRPC"
	envRegistryBackend    = "REGISTRY_BACKEND"
	envRedisAddr          = "REDIS_ADDR"
	envAnnouncementTTL    = "ANNOUNCEMENT_TTL"
	envDirectoryLimit     = "DIRECTORY_LIMIT"
	envDirectoryTimeout   = "DIRECTORY_TIMEOUT"
	envMemoryRegistrySize = "MEMORY_REGISTRY_SIZE"
	envDatagramWorkers    = "DATAGRAM_WORKERS"
	envDatagramTimeout    = "DATAGRAM_TIMEOUT"
	envDatagramRateLimit  = "DATAGRAM_RATE_LIMIT"
	envDatagramBurst      = "DATAGRAM_BURST"
	envLogLevel           = "LOG_LEVEL"
)

// Registry backends.
const (
	backendRedis  = "redis"
	backendMemory = "memory"
)

// rateLimitedSources is the number of source addresses tracked by the datagram rate limiter.
const rateLimitedSources = 65536

var defaults = map[string]string{
	envUDPPort:            "8080",
	envHTTPPort:           "8080",
	envGRPCPort:           "0",
	envRegistryBackend:    backendRedis,
	envAnnouncementTTL:    domain.AnnouncementTTL.String(),
	envDirectoryLimit:     strconv.Itoa(domain.MaxDirectoryEntries),
	envDirectoryTimeout:   "5s",
	envMemoryRegistrySize: "65536",
	envDatagramWorkers:    "256",
	envDatagramTimeout:    "5s",
	envDatagramRateLimit:  "20",
	envDatagramBurst:      "40",
	envLogLevel:           "info",
}

// SIXPMasterConfig holds the service configuration.
type SIXPMasterConfig struct {
	UDPPort          int
	HTTPPort         int
	GRPCPort         int // 0 disables the health endpoint
	RegistryBackend  string
	Redis            myredis.RedisConfig
	AnnouncementTTL  time.Duration
	DirectoryLimit   int
	DirectoryTimeout time.Duration
	MemoryRegistry   int
	Datagram         udp.ListenerConfig
	LogLevel         string
}

// yamlConfig mirrors the environment variables; any value set in the environment wins.
type yamlConfig struct {
	ServicePortUDP     string `yaml:"service_port_udp"`
	ServicePortHTTP    string `yaml:"service_port_http"`
	ServicePortGRPC    string `yaml:"service_port_grpc"`
	RegistryBackend    string `yaml:"registry_backend"`
	RedisAddr          string `yaml:"redis_addr"`
	AnnouncementTTL    string `yaml:"announcement_ttl"`
	DirectoryLimit     string `yaml:"directory_limit"`
	DirectoryTimeout   string `yaml:"directory_timeout"`
	MemoryRegistrySize string `yaml:"memory_registry_size"`
	DatagramWorkers    string `yaml:"datagram_workers"`
	DatagramTimeout    string `yaml:"datagram_timeout"`
	DatagramRateLimit  string `yaml:"datagram_rate_limit"`
	DatagramBurst      string `yaml:"datagram_burst"`
	LogLevel           string `yaml:"log_level"`
}

func (y *yamlConfig) values() map[string]string {
	return map[string]string{
		envUDPPort:            y.ServicePortUDP,
		envHTTPPort:           y.ServicePortHTTP,
		envGRPCPort:           y.ServicePortGRPC,
		envRegistryBackend:    y.RegistryBackend,
		envRedisAddr:          y.RedisAddr,
		envAnnouncementTTL:    y.AnnouncementTTL,
		envDirectoryLimit:     y.DirectoryLimit,
		envDirectoryTimeout:   y.DirectoryTimeout,
		envMemoryRegistrySize: y.MemoryRegistrySize,
		envDatagramWorkers:    y.DatagramWorkers,
		envDatagramTimeout:    y.DatagramTimeout,
		envDatagramRateLimit:  y.DatagramRateLimit,
		envDatagramBurst:      y.DatagramBurst,
		envLogLevel:           y.LogLevel,
	}
}

func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// settings resolves a value from the environment, then the YAML file, then the defaults.
type settings map[string]string

func (s settings) get(name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	if v := strings.TrimSpace(s[name]); v != "" {
		return v
	}
	return defaults[name]
}

func (s settings) intRange(name string, lo, hi int) (int, error) {
	raw := s.get(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer in %d-%d, got %q", name, lo, hi, raw)
	}
	return v, nil
}

func (s settings) positiveDuration(name string) (time.Duration, error) {
	raw := s.get(name)
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", name, raw)
	}
	return v, nil
}

// LoadConfig loads configuration from environment variables and the optional YAML file at CONFIG_PATH.
// REDIS_ADDR is required for the redis registry backend; every other value has a default.
func LoadConfig() (*SIXPMasterConfig, error) {
	s := settings{}
	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, err
		}
		raw, err := loadYAMLConfig(abs)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", abs, err)
		}
		s = raw.values()
	}

	cfg := &SIXPMasterConfig{}
	var err error

	if cfg.UDPPort, err = s.intRange(envUDPPort, 1, 65535); err != nil {
		return nil, err
	}
	if cfg.HTTPPort, err = s.intRange(envHTTPPort, 1, 65535); err != nil {
		return nil, err
	}
	if cfg.GRPCPort, err = s.intRange(envGRPCPort, 0, 65535); err != nil {
		return nil, err
	}

	cfg.RegistryBackend = strings.ToLower(s.get(envRegistryBackend))
	switch cfg.RegistryBackend {
	case backendRedis:
		cfg.Redis.Addr = s.get(envRedisAddr)
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("%s is required for the %s registry", envRedisAddr, backendRedis)
		}
	case backendMemory:
	default:
		return nil, fmt.Errorf("%s must be %s|%s, got %q", envRegistryBackend, backendRedis, backendMemory, cfg.RegistryBackend)
	}

	if cfg.AnnouncementTTL, err = s.positiveDuration(envAnnouncementTTL); err != nil {
		return nil, err
	}
	if cfg.DirectoryLimit, err = s.intRange(envDirectoryLimit, 1, domain.MaxDirectoryEntries); err != nil {
		return nil, err
	}
	if cfg.DirectoryTimeout, err = s.positiveDuration(envDirectoryTimeout); err != nil {
		return nil, err
	}
	if cfg.MemoryRegistry, err = s.intRange(envMemoryRegistrySize, 1, 1<<24); err != nil {
		return nil, err
	}

	if cfg.Datagram.Workers, err = s.intRange(envDatagramWorkers, 1, 1<<16); err != nil {
		return nil, err
	}
	if cfg.Datagram.Timeout, err = s.positiveDuration(envDatagramTimeout); err != nil {
		return nil, err
	}
	rateRaw := s.get(envDatagramRateLimit)
	cfg.Datagram.RateLimit, err = strconv.ParseFloat(rateRaw, 64)
	if err != nil || cfg.Datagram.RateLimit < 0 {
		return nil, fmt.Errorf("%s must be a non-negative number, got %q", envDatagramRateLimit, rateRaw)
	}
	if cfg.Datagram.Burst, err = s.intRange(envDatagramBurst, 1, 1<<16); err != nil {
		return nil, err
	}
	cfg.Datagram.LimiterSize = rateLimitedSources

	cfg.LogLevel = strings.ToLower(s.get(envLogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%s must be debug|info|warn|error, got %q", envLogLevel, cfg.LogLevel)
	}

	return cfg, nil
}
