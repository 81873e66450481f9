package main

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"board-api/api"
	"board-api/board"
	"board-api/confirm"
	"board-api/domain"
	"board-api/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.New()

	slot := newSlot(logger)

	ctx := context.Background()
	state, ok := slot.Load(ctx)
	if !ok {
		state = domain.DefaultState()
	}
	store := board.NewStore(state, logger)
	board.StartWatcher(ctx, store, slot, logger)

	gate := confirm.NewGate(logger)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(api.DecompressRequests())

	api.Register(e, store, gate, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

// newSlot picks the persistence backend: redis when a connection string
// is configured, a local file otherwise.
func newSlot(logger *log.Logger) storage.Slot {
	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		redisOpts, err := redis.ParseURL(redisConn)
		if err != nil {
			parts := strings.Split(redisConn, ",")
			redisOpts = &redis.Options{Addr: parts[0]}
			for _, p := range parts[1:] {
				kv := strings.SplitN(p, "=", 2)
				if len(kv) != 2 {
					continue
				}
				switch strings.ToLower(kv[0]) {
				case "password":
					redisOpts.Password = kv[1]
				case "ssl":
					if strings.ToLower(kv[1]) == "true" {
						redisOpts.TLSConfig = &tls.Config{}
					}
				}
			}
		}
		return storage.NewRedisSlot(redis.NewClient(redisOpts), os.Getenv("STATE_KEY"), logger)
	}

	path := os.Getenv("STATE_FILE")
	if path == "" {
		path = storage.DefaultKey + ".json"
	}
	return storage.NewFileSlot(path, logger)
}
