package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"incordes-client/internal/models"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAuthApi     = "https://functions.poehali.dev/2d50d235-69aa-4843-90b9-73f0f430a117"
	defaultServersApi  = "https://functions.poehali.dev/e463f777-60a4-4b41-b8f8-d5f8f8229db5"
	defaultMessagesApi = "https://functions.poehali.dev/32453d49-d319-4d27-a215-de640ae2c16d"
)

// readConfigFile reads path when it exists, then lets .env and INCORDES_*
// variables override it.
func readConfigFile(path string) (models.ConfigFile, error) {
	var cfg models.ConfigFile

	configFile, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Printf("No %s found, using defaults\n", path)
	case err != nil:
		return cfg, err
	default:
		defer configFile.Close()

		bytes, err := io.ReadAll(configFile)
		if err != nil {
			return cfg, err
		}

		err = json.Unmarshal(bytes, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()

	err = applyEnv(&cfg, os.LookupEnv)
	if err != nil {
		return cfg, err
	}

	setDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *models.ConfigFile, lookup func(string) (string, bool)) error {
	texts := map[string]*string{
		"INCORDES_ADDRESS":         &cfg.Address,
		"INCORDES_PORT":            &cfg.Port,
		"INCORDES_TLS_CERT":        &cfg.TlsCert,
		"INCORDES_TLS_KEY":         &cfg.TlsKey,
		"INCORDES_LOG_LEVEL":       &cfg.LogLevel,
		"INCORDES_COOKIE_SECRET":   &cfg.CookieSecret,
		"INCORDES_AUTH_API":        &cfg.AuthApi,
		"INCORDES_SERVERS_API":     &cfg.ServersApi,
		"INCORDES_MESSAGES_API":    &cfg.MessagesApi,
		"INCORDES_SESSION_BACKEND": &cfg.SessionBackend,
		"INCORDES_STORAGE_SECRET":  &cfg.StorageSecret,
		"INCORDES_SQLITE_PATH":     &cfg.SqlitePath,
		"INCORDES_DB_USER":         &cfg.DbUser,
		"INCORDES_DB_PASSWORD":     &cfg.DbPassword,
		"INCORDES_DB_ADDRESS":      &cfg.DbAddress,
		"INCORDES_DB_PORT":         &cfg.DbPort,
		"INCORDES_DB_DATABASE":     &cfg.DbDatabase,
		"INCORDES_REDIS_ADDRESS":   &cfg.RedisAddress,
		"INCORDES_REDIS_PASSWORD":  &cfg.RedisPassword,
	}
	for name, field := range texts {
		if value, ok := lookup(name); ok {
			*field = value
		}
	}

	bools := map[string]*bool{
		"INCORDES_PRINT_HTTP_REQUESTS": &cfg.PrintHttpRequests,
		"INCORDES_LOG_TO_FILE":         &cfg.LogToFile,
	}
	for name, field := range bools {
		if value, ok := lookup(name); ok {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field = parsed
		}
	}

	ints := map[string]*int{
		"INCORDES_REQUEST_TIMEOUT_SECONDS": &cfg.RequestTimeoutSeconds,
		"INCORDES_REDIS_DB":                &cfg.RedisDB,
	}
	for name, field := range ints {
		if value, ok := lookup(name); ok {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field = parsed
		}
	}

	return nil
}

func setDefaults(cfg *models.ConfigFile) {
	if cfg.Address == "" {
		cfg.Address = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AuthApi == "" {
		cfg.AuthApi = defaultAuthApi
	}
	if cfg.ServersApi == "" {
		cfg.ServersApi = defaultServersApi
	}
	if cfg.MessagesApi == "" {
		cfg.MessagesApi = defaultMessagesApi
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = 30
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = "sqlite"
	}
	if cfg.SqlitePath == "" {
		cfg.SqlitePath = "./session.db"
	}
	if cfg.RedisAddress == "" {
		cfg.RedisAddress = "localhost:6379"
	}
}
