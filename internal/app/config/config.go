package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

type Config struct {
	ServiceHost      string
	ServicePort      int
	Mode             string
	AutoMigrate      bool
	CORSOrigins      []string
	UserNameCacheTTL time.Duration
	JWT              JWTConfig
	Redis            RedisConfig
	Slack            SlackConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// SlackConfig describes where change request notifications go.
// LeadershipChannel additionally receives requests whose budget impact exceeds BudgetAlertThreshold.
type SlackConfig struct {
	Enabled              bool
	Token                string
	AppURL               string
	LeadershipChannel    string
	BudgetAlertThreshold int64
}

const (
	envRedisHost  = "REDIS_HOST"
	envRedisPort  = "REDIS_PORT"
	envRedisUser  = "REDIS_USER"
	envRedisPass  = "REDIS_PASSWORD"
	envJWTSecret  = "JWT_SECRET"
	envSlackToken = "SLACK_BOT_TOKEN"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 3001)
	viper.SetDefault("Mode", ModeDev)
	viper.SetDefault("CORSOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("UserNameCacheTTL", "10m")
	viper.SetDefault("JWT.ExpiresIn", "12h")
	viper.SetDefault("Slack.AppURL", "https://finishlinebyner.com")
	viper.SetDefault("Slack.BudgetAlertThreshold", 100)

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	log.Info("config parsed")

	return cfg, nil
}

// applyEnv fills secrets and connection settings that never live in the toml file.
func (c *Config) applyEnv() error {
	var err error

	c.JWT.Token = os.Getenv(envJWTSecret)
	if c.JWT.Token == "" {
		if c.Mode == ModeProd {
			return fmt.Errorf("%s must be set in prod mode", envJWTSecret)
		}
		c.JWT.Token = "i<3security"
	}
	c.JWT.SigningMethod = jwt.SigningMethodHS256

	c.Redis.Host = os.Getenv(envRedisHost)
	if port := os.Getenv(envRedisPort); port != "" {
		c.Redis.Port, err = strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	c.Redis.Password = os.Getenv(envRedisPass)
	c.Redis.User = os.Getenv(envRedisUser)
	c.Redis.DialTimeout = 10 * time.Second
	c.Redis.ReadTimeout = 10 * time.Second

	c.Slack.Token = os.Getenv(envSlackToken)

	return nil
}

func (c *Config) IsProd() bool {
	return c.Mode == ModeProd
}

// RedisEnabled reports whether a redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
