package cmd

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/reviewreply/internal/ai/gemini"
	"github.com/reviewreply/internal/api"
	"github.com/reviewreply/internal/config"
	"github.com/reviewreply/internal/ratelimit"
	"github.com/reviewreply/internal/responder"
	"github.com/reviewreply/internal/reviewmodel"
	"github.com/reviewreply/internal/validation"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the ReviewReply API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	port := cfg.Server.Port
	if c.Int("port") != 0 {
		port = c.Int("port")
	}

	r, err := buildResponder(cfg, redisLimiter(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("Starting ReviewReply API server on port %d...\n", port)

	server := api.NewServer(port, cfg.Server.JWTSecret, r)
	return server.Start()
}

// redisLimiter builds the shared quota limiter on Redis.
func redisLimiter(cfg *config.Config) *ratelimit.Limiter {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return ratelimit.New(ratelimit.NewRedisStore(client), ratelimit.WithLimits(func(string) ratelimit.Limits {
		return ratelimit.Limits{
			PerHour: cfg.RateLimit.PerHour,
			PerDay:  cfg.RateLimit.PerDay,
		}
	}))
}

// buildResponder wires the full pipeline from config: WordPress database,
// Gemini client factory, sanitizer, and orchestrator.
func buildResponder(cfg *config.Config, limiter *ratelimit.Limiter, opts ...responder.Option) (*responder.Responder, error) {
	db, err := reviewmodel.NewDB(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := reviewmodel.NewSQLStore(db, cfg.Database.TablePrefix)
	reviews := reviewmodel.New(store)
	sanitizer := validation.NewSanitizer(cfg.Sanitizer.MaxChars)
	factory := newClientFactory(cfg, limiter)

	opts = append([]responder.Option{responder.WithTemperature(cfg.Gemini.Temperature)}, opts...)

	return responder.New(reviews, sanitizer, factory, opts...), nil
}

// clientFactory adapts the Gemini factory to the orchestrator's interface.
type clientFactory struct {
	inner *gemini.Factory
}

func newClientFactory(cfg *config.Config, limiter *ratelimit.Limiter) clientFactory {
	return clientFactory{
		inner: gemini.NewFactory(cfg.Gemini.APIKey, cfg.Gemini.Model, gemini.NewHTTPTransport(), limiter),
	}
}

func (f clientFactory) Create(genCfg *gemini.GenerationConfig) responder.AIClient {
	return f.inner.Create(genCfg)
}
