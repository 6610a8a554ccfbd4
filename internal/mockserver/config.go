package mockserver

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ClientSecret string
	// JWTHeaders are the lower-cased request headers covered by headers_sha256.
	JWTHeaders []string
	ShopID     int64
	Env        string
	RedisAddr  string
	RedisPass  string
	Port       string
}

// Development relaxes the url_sha256 check, which cannot match behind a
// local tunnel.
func (c Config) Development() bool {
	return c.Env == "development"
}

// LoadConfig reads the environment, after loading any of the given .env
// files that exist.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		ClientSecret: os.Getenv("APP_CLIENT_SECRET"),
		Env:          os.Getenv("APP_ENV"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		Port:         os.Getenv("PORT"),
	}
	if cfg.ClientSecret == "" {
		return Config{}, fmt.Errorf("APP_CLIENT_SECRET is required")
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	for _, h := range strings.Split(os.Getenv("JWT_HEADERS"), ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			cfg.JWTHeaders = append(cfg.JWTHeaders, h)
		}
	}

	if v := os.Getenv("JWT_SHOP_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_SHOP_ID: %w", err)
		}
		cfg.ShopID = id
	}
	return cfg, nil
}
