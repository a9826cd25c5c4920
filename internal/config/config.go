package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Storage struct {
	// memory | postgres
	Driver string
}

type TMDB struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string
	Region       string
	IncludeAdult bool
	// Requests per second towards the catalog, 0 disables throttling.
	RateLimit float64
	Timeout   time.Duration
}

type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

type Session struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Storage  Storage
	TMDB     TMDB
	OAuth    OAuth
	Session  Session
	Log      Log
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()
	if cfg.TMDB.APIKey == "" {
		log.Printf("%s TMDB_API_KEY is empty, catalog requests will be rejected", logtag)
	}
	return cfg
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Storage:  *newStorage(),
		TMDB:     *newTMDB(),
		OAuth:    *newOAuth(),
		Session:  *newSession(),
		Log:      *newLog(),
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getsecret("REDIS_PASSWORD", "shared"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getsecret("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "kinofav"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newStorage() *Storage {
	driver := getenv("STORAGE_DRIVER", StoragePostgres)
	if driver != StorageMemory && driver != StoragePostgres {
		fmt.Printf("%s unknown STORAGE_DRIVER %q. Using %s\n", logtag, driver, StoragePostgres)
		driver = StoragePostgres
	}
	return &Storage{Driver: driver}
}

func newTMDB() *TMDB {
	return &TMDB{
		BaseURL:      getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		ImageBaseURL: getenv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w300_and_h450_bestv2"),
		APIKey:       getsecret("TMDB_API_KEY", ""),
		Language:     getenv("TMDB_LANGUAGE", "ja"),
		Region:       getenv("TMDB_REGION", "JP"),
		IncludeAdult: getbool("TMDB_INCLUDE_ADULT", false),
		RateLimit:    getfloat("TMDB_RATE_LIMIT", 20),
		Timeout:      getduration("TMDB_TIMEOUT", 10*time.Second),
	}
}

func newOAuth() *OAuth {
	return &OAuth{
		ClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: getsecret("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  getenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		AuthURL:      getenv("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/auth"),
		TokenURL:     getenv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		UserInfoURL:  getenv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
	}
}

func newSession() *Session {
	return &Session{
		Secret:     getsecret("SESSION_SECRET", "shared"),
		TTL:        getduration("SESSION_TTL", 30*24*time.Hour),
		CookieName: getenv("SESSION_COOKIE", "kinofav_session"),
		Secure:     getbool("SESSION_COOKIE_SECURE", false),
	}
}

func newLog() *Log {
	return &Log{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "text"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getsecret(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value\n", logtag, key)
		return defaultValue
	}
	fmt.Printf("%s %s is set\n", logtag, key)
	return val
}

func getbool(key string, defaultValue bool) bool {
	raw := getenv(key, strconv.FormatBool(defaultValue))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		fmt.Printf("%s %s malformed bool %q. Using default value %t\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getfloat(key string, defaultValue float64) float64 {
	raw := getenv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		fmt.Printf("%s %s malformed number %q. Using default value %v\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		fmt.Printf("%s %s malformed duration %q. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}
