package configs

import (
	"errors"
	"rentalChat/internal/enums"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Viper *viper.Viper
}

var (
	config    *Config
	configErr error
	once      sync.Once
)

// GetConfig loads the process configuration once. Values come from
// config.yaml (./configs or the working directory) and can be overridden
// with RENTALCHAT_ prefixed environment variables, e.g.
// RENTALCHAT_DATABASE_HOST.
func GetConfig() (*Config, error) {
	once.Do(func() {
		config, configErr = Load("")
	})
	return config, configErr
}

// Load reads the configuration from path, or searches the default
// locations when path is empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return &Config{Viper: v}, nil
}

// Default returns a configuration holding only the built-in defaults.
func Default() *Config {
	return &Config{Viper: newViper()}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RENTALCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "housing")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.rental_owner_ttl", 10*time.Minute)
	v.SetDefault("redis.presence_ttl", 24*time.Hour)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_time", 7*24*60*60)

	v.SetDefault("socket.handshake_timeout", 10*time.Second)
	v.SetDefault("socket.write_timeout", 5*time.Second)
	v.SetDefault("socket.read_limit", 64<<10)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.external_endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", enums.FILE_BUCKET_CHAT_ATTACHMENTS)
	v.SetDefault("minio.max_upload_bytes", 10<<20)
}
