package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds runtime settings read from the environment
type Config struct {
	Env             string
	Port            string
	DBDriver        string
	SQLitePath      string
	MySQL           MySQLConfig
	SeedDemo        bool
	ShutdownTimeout time.Duration
}

// MySQLConfig holds the connection settings used when DBDriver is mysql
type MySQLConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds the go-sql-driver connection string
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Pass, m.Host, m.Port, m.Name)
}

// LoadDotEnv reads .env into the process environment if the file exists.
// It reports whether a file was loaded.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads the configuration from environment variables
func Load() (Config, error) {
	cfg := Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("APP_PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", DriverSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "weighbridge.db"),
		MySQL: MySQLConfig{
			Host: os.Getenv("MYSQL_HOST"),
			Port: getEnv("MYSQL_PORT", "3306"),
			User: os.Getenv("MYSQL_USER"),
			Pass: os.Getenv("MYSQL_PASS"),
			Name: os.Getenv("MYSQL_NAME"),
		},
	}

	seed, err := getBool("SEED_DEMO", false)
	if err != nil {
		return Config{}, err
	}
	cfg.SeedDemo = seed

	timeout, err := getInt("SHUTDOWN_TIMEOUT_SEC", 10)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT_SEC must be > 0, got %d", timeout)
	}
	cfg.ShutdownTimeout = time.Duration(timeout) * time.Second

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH cannot be empty")
		}
	case DriverMySQL:
		if c.MySQL.Host == "" || c.MySQL.User == "" || c.MySQL.Name == "" {
			return fmt.Errorf("missing required mysql environment variables (MYSQL_HOST, MYSQL_USER, MYSQL_NAME)")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("APP_ENV must be 'development' or 'production', got %q", c.Env)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q", key, v)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, v)
	}
	return n, nil
}
