package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string     `yaml:"env" env-default:"local"`
	DSN           string     `yaml:"dsn" env:"DSN" env-required:"true"`
	HTTP          HTTPConfig `yaml:"http"`
	Redis         RedisConf  `yaml:"redis"`
	Media         MediaConf  `yaml:"media"`
	SessionSecret string     `yaml:"session_secret" env:"SESSION_SECRET" env-default:"dev-session-secret"`
	AdminSecret   string     `yaml:"admin_token_secret" env:"ADMIN_TOKEN_SECRET" env-default:"dev-admin-secret"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redispassword"`
	RedisDB       int    `yaml:"redis_db"`
}

type MediaConf struct {
	// CDNHost — хост image-CDN; только для него строятся URL трансформаций
	CDNHost string `yaml:"cdn_host" env-required:"true"`
	// ListingURL — удалённый листинг медиафайлов (папка -> дескрипторы)
	ListingURL string        `yaml:"listing_url"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env-default:"5m"`
	SyncOnBoot bool          `yaml:"sync_on_boot" env-default:"true"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
