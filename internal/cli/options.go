package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends understood by NewStore.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Environment variables consulted when a flag is left unset.
const (
	EnvFlow          = "QUESTFLOW_FLOW"
	EnvStore         = "QUESTFLOW_STORE"
	EnvSessionDir    = "QUESTFLOW_SESSION_DIR"
	EnvRedisAddr     = "QUESTFLOW_REDIS_ADDR"
	EnvRedisPassword = "QUESTFLOW_REDIS_PASSWORD"
	EnvLogLevel      = "QUESTFLOW_LOG_LEVEL"
	EnvEncryptionKey = "QUESTFLOW_ENCRYPTION_KEY"
	EnvRedisDB       = "QUESTFLOW_REDIS_DB"
	EnvSessionTTL    = "QUESTFLOW_SESSION_TTL"
	EnvMaskPII       = "QUESTFLOW_MASK_PII"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = "questflow.yaml"

// Options contains the configuration shared by every command.
// Empty strings and nil pointers are unset, so a lower layer may fill them.
type Options struct {
	FlowPath      string         `yaml:"flow"`
	Store         string         `yaml:"store"`
	SessionDir    string         `yaml:"sessionDir"`
	RedisAddr     string         `yaml:"redisAddr"`
	RedisPassword string         `yaml:"redisPassword"`
	RedisDB       *int           `yaml:"redisDB"`
	SessionTTL    *time.Duration `yaml:"sessionTTL"`
	EncryptionKey string         `yaml:"encryptionKey"`
	MaskPII       *bool          `yaml:"maskPII"`
	LogLevel      string         `yaml:"logLevel"`
}

// RedisDatabase is the redis database number, 0 when unset.
func (o Options) RedisDatabase() int {
	if o.RedisDB == nil {
		return 0
	}
	return *o.RedisDB
}

// TTL is the redis session expiry, 0 (no expiry) when unset.
func (o Options) TTL() time.Duration {
	if o.SessionTTL == nil {
		return 0
	}
	return *o.SessionTTL
}

// MaskingPII reports whether free-text answers are masked before storage.
func (o Options) MaskingPII() bool {
	return o.MaskPII != nil && *o.MaskPII
}

// LookupFunc reads a configuration variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnv fills every unset field from its environment variable.
func (o *Options) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	fill(&o.FlowPath, EnvFlow)
	fill(&o.Store, EnvStore)
	fill(&o.SessionDir, EnvSessionDir)
	fill(&o.RedisAddr, EnvRedisAddr)
	fill(&o.RedisPassword, EnvRedisPassword)
	fill(&o.LogLevel, EnvLogLevel)
	fill(&o.EncryptionKey, EnvEncryptionKey)

	var errs []error
	if v, ok := lookup(EnvRedisDB); ok && o.RedisDB == nil {
		db, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvRedisDB, err))
		} else {
			o.RedisDB = &db
		}
	}
	if v, ok := lookup(EnvSessionTTL); ok && o.SessionTTL == nil {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvSessionTTL, err))
		} else {
			o.SessionTTL = &ttl
		}
	}
	if v, ok := lookup(EnvMaskPII); ok && o.MaskPII == nil {
		mask, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvMaskPII, err))
		} else {
			o.MaskPII = &mask
		}
	}
	return errors.Join(errs...)
}

// ApplyFile fills every empty field from a YAML config file.
// A missing file is ignored only when optional is true.
func (o *Options) ApplyFile(path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var file Options
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	o.merge(file)
	return nil
}

func (o *Options) merge(other Options) {
	pick := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	pick(&o.FlowPath, other.FlowPath)
	pick(&o.Store, other.Store)
	pick(&o.SessionDir, other.SessionDir)
	pick(&o.RedisAddr, other.RedisAddr)
	pick(&o.RedisPassword, other.RedisPassword)
	pick(&o.EncryptionKey, other.EncryptionKey)
	pick(&o.LogLevel, other.LogLevel)
	if o.RedisDB == nil {
		o.RedisDB = other.RedisDB
	}
	if o.SessionTTL == nil {
		o.SessionTTL = other.SessionTTL
	}
	if o.MaskPII == nil {
		o.MaskPII = other.MaskPII
	}
}

// StoreKind resolves the session backend: explicit choice first, then redis
// when an address is configured, the file store otherwise.
func (o Options) StoreKind() string {
	switch {
	case o.Store != "":
		return o.Store
	case o.RedisAddr != "":
		return StoreRedis
	default:
		return StoreFile
	}
}
