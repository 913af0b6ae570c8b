package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// Duration wraps time.Duration so yaml files can use "10s" style values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AWSConfig struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

type UploadConfig struct {
	Bucket string   `yaml:"bucket"`
	URLTTL Duration `yaml:"urlTTL"`
}

type DetectionConfig struct {
	PollInterval   Duration `yaml:"pollInterval"`
	MaxWait        Duration `yaml:"maxWait"`
	PageMaxResults int32    `yaml:"pageMaxResults"`
	JobTag         string   `yaml:"jobTag"`
	// Strategy is the default PDF extraction strategy; requests may
	// override it.
	Strategy string `yaml:"strategy"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	UseSSL  bool   `yaml:"useSSL"`
}

// Config is the full application configuration, assembled once at startup
// and handed to constructors; components never read the environment
// themselves.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	AWS       AWSConfig       `yaml:"aws"`
	Upload    UploadConfig    `yaml:"upload"`
	Detection DetectionConfig `yaml:"detection"`
	Redis     RedisConfig     `yaml:"redis"`
	Worker    WorkerConfig    `yaml:"worker"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       logger.Config   `yaml:"log"`
}

// Load reads defaults, then the yaml file at path (if it exists), then a
// .env file, then environment variable overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Addr: ":8080"},
		Upload: UploadConfig{URLTTL: Duration(30 * time.Minute)},
		Detection: DetectionConfig{
			PollInterval:   Duration(10 * time.Second),
			MaxWait:        Duration(10 * time.Minute),
			PageMaxResults: 1000,
			JobTag:         "DetectingText",
			Strategy:       "async",
		},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Worker:  WorkerConfig{Concurrency: 10},
		Storage: StorageConfig{Backend: "s3", UseSSL: true},
		Log: logger.Config{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stdout"},
		},
	}

	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment variables")
	}
	applyEnv(cfg)

	if cfg.Upload.Bucket == "" {
		return nil, fmt.Errorf("missing upload bucket (MED_UPLOAD_BUCKET)")
	}
	if cfg.AWS.Region == "" {
		return nil, fmt.Errorf("missing region (MED_AWS_REGION)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Upload.Bucket, "MED_UPLOAD_BUCKET")
	setString(&cfg.AWS.Region, "MED_AWS_REGION")
	setString(&cfg.AWS.Endpoint, "AWS_ENDPOINT")
	setString(&cfg.AWS.AccessKey, "AWS_ACCESS_KEY")
	setString(&cfg.AWS.SecretKey, "AWS_SECRET_KEY")
	setString(&cfg.Server.Addr, "MED_SERVER_ADDR")
	setString(&cfg.Redis.Addr, "MED_REDIS_ADDR")
	setString(&cfg.Storage.Backend, "MED_STORAGE_BACKEND")
	setString(&cfg.Detection.Strategy, "MED_EXTRACTION_STRATEGY")
	setString(&cfg.Detection.JobTag, "MED_JOB_TAG")
	setString(&cfg.Log.Level, "MED_LOG_LEVEL")

	setDuration(&cfg.Detection.PollInterval, "MED_POLL_INTERVAL")
	setDuration(&cfg.Detection.MaxWait, "MED_MAX_WAIT")
	setDuration(&cfg.Upload.URLTTL, "MED_UPLOAD_URL_TTL")

	if v := os.Getenv("MED_WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Worker.Concurrency = n
		}
	}
	if v := os.Getenv("MED_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = Duration(parsed)
		}
	}
}
