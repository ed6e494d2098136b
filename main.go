package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"incordes-client/internal/auth"
	"incordes-client/internal/cascade"
	"incordes-client/internal/chat"
	"incordes-client/internal/database"
	"incordes-client/internal/gateway"
	"incordes-client/internal/handlers"
	"incordes-client/internal/keyValue"
	"incordes-client/internal/metrics"
	"incordes-client/internal/models"
	"incordes-client/internal/session"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	if cfg.LogToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	} else {
		config.OutputPaths = []string{"stdout"}
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// setupStore opens the key-value store holding the session.
func setupStore(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (keyValue.Store, error) {
	var store keyValue.Store

	switch cfg.SessionBackend {
	case "memory":
		fmt.Println("Keeping session in memory...")
		store = keyValue.NewMemoryStore(sugar)
	case "redis":
		fmt.Println("Connecting to redis...")
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := client.Ping(ctx).Err()
		if err != nil {
			client.Close()
			return nil, err
		}
		store = keyValue.NewRedisStore(client, "incordes:", sugar)
	default:
		db, dialect, err := database.Setup(cfg)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, err
		}
		store = keyValue.NewSQLStore(db, dialect, sugar)
	}

	if cfg.StorageSecret != "" {
		store = keyValue.NewSealed(store, cfg.StorageSecret)
	}
	return store, nil
}

func cookieSecret(cfg *models.ConfigFile, sugar *zap.SugaredLogger) []byte {
	if cfg.CookieSecret != "" {
		return []byte(cfg.CookieSecret)
	}

	sugar.Warn("No CookieSecret configured, notification cookies won't survive a restart")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		sugar.Fatal(err)
	}
	return secret
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfigFile("config.json")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(&cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sugar.Sync()

	store, err := setupStore(&cfg, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	defer store.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	gw := gateway.NewClient(gateway.Endpoints{
		Auth:     cfg.AuthApi,
		Servers:  cfg.ServersApi,
		Messages: cfg.MessagesApi,
	}, time.Duration(cfg.RequestTimeoutSeconds)*time.Second, sugar, m)

	machine := auth.NewMachine(session.NewKVRepository(store), gw, sugar, m)
	gw.SetTokenSource(machine)

	shell := cascade.NewShell(gw, chat.NewTranscript(gw, sugar), sugar)
	machine.Observe(shell.SetUser)

	isHttps := cfg.TlsCert != "" && cfg.TlsKey != ""

	router, err := handlers.Setup(&cfg, sugar, handlers.Deps{
		Auth:    machine,
		Shell:   shell,
		Cookies: handlers.NewCookieStore(cookieSecret(&cfg, sugar), isHttps),
	})
	if err != nil {
		sugar.Fatal(err)
	}

	// pages answer with the loading interstitial until this is done
	go machine.Rehydrate(context.Background())

	var httpProtocol string
	if isHttps {
		httpProtocol = "https"
	} else {
		httpProtocol = "http"
	}

	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)
	fmt.Printf("Incordes is running on %s://%s\n", httpProtocol, address)

	if isHttps {
		err = http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, router)
	} else {
		err = http.ListenAndServe(address, router)
	}
	if err != nil {
		sugar.Fatal(err)
	}
}
