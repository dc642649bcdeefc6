// Package alerts delivers marketplace email notifications through an
// Asynq queue backed by Redis. Enqueueing is fire and forget; delivery
// failures are retried by the queue, never surfaced to the caller.
package alerts

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

var (
	client *asynq.Client
	server *asynq.Server
	log    zerolog.Logger
)

// Init starts the Asynq server and initializes a shared client.
func Init(redisAddr string, logger zerolog.Logger) {
	log = logger

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskApplicationReceived, handleApplicationReceived)
	mux.HandleFunc(TaskApplicationDecided, handleApplicationDecided)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Error().Err(err).Msg("asynq server stopped")
		}
	}()

	log.Info().Str("addr", redisAddr).Msg("asynq initialized")
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}
