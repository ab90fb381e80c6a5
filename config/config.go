package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jhansigoday/bookbridge/logger"
)

type Config struct {
	Listen  Listener      `yaml:"listen"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Geocode GeocodeConfig `yaml:"geocode"`
	Worker  WorkerConfig  `yaml:"worker"`
}

type Listener struct {
	BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"PORT" env-default:"8080"`
}

type StorageConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Database string `yaml:"database" env:"DB_NAME" env-default:"bookbridge"`
	Username string `yaml:"username" env:"DB_USER" env-default:"root"`
	Password string `yaml:"password" env:"DB_PASS" env-default:""`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-default:"dev_secret_change_me"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

type GeocodeConfig struct {
	BigDataCloudURL string        `yaml:"bigdatacloud_url" env:"GEOCODE_BIGDATACLOUD_URL" env-default:"https://api.bigdatacloud.net/data/reverse-geocode-client"`
	NominatimURL    string        `yaml:"nominatim_url" env:"GEOCODE_NOMINATIM_URL" env-default:"https://nominatim.openstreetmap.org/reverse"`
	Timeout         time.Duration `yaml:"timeout" env:"GEOCODE_TIMEOUT" env-default:"10s"`
}

type WorkerConfig struct {
	ReminderInterval time.Duration `yaml:"reminder_interval" env:"REMINDER_INTERVAL" env-default:"1h"`
	PendingAge       time.Duration `yaml:"pending_age" env:"REMINDER_PENDING_AGE" env-default:"72h"`
}

// DSN builds the MySQL connection string. parseTime is required so DATETIME
// columns scan into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.Storage.Username, c.Storage.Password, c.Storage.Host, c.Storage.Port, c.Storage.Database)
}

var instance *Config
var once sync.Once

// GetConfig reads config.yml when present, otherwise falls back to
// environment variables with the defaults above.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		if _, err := os.Stat("config.yml"); err == nil {
			if err := cleanenv.ReadConfig("config.yml", instance); err != nil {
				help, _ := cleanenv.GetDescription(instance, nil)
				logger.Log.Error(help)
				logger.Log.Fatal(err)
			}
			return
		}
		if err := cleanenv.ReadEnv(instance); err != nil {
			logger.Log.Fatal(err)
		}
	})
	return instance
}
