package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/reviewreply/internal/config"
	"github.com/reviewreply/internal/ratelimit"
	"github.com/reviewreply/internal/responder"
	"github.com/reviewreply/pkg/models"
)

// ReplyCommand returns the reply command for testing the pipeline against a
// real review from the terminal.
func ReplyCommand() *cli.Command {
	return &cli.Command{
		Name:  "reply",
		Usage: "Generate an AI reply for a product review",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Response template to use",
			},
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Usage:   "Response mood to use",
			},
			&cli.BoolFlag{
				Name:    "single",
				Aliases: []string{"s"},
				Usage:   "Skip the suggestion stage and use the given (or default) template and mood",
			},
		},
		ArgsUsage: "COMMENT_ID",
		Action:    runReply,
	}
}

func runReply(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: comment ID")
	}

	commentID, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %s", c.Args().Get(0))
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// CLI runs use an in-memory quota store so a terminal session never
	// consumes the shared Redis budget.
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.WithLimits(func(string) ratelimit.Limits {
		return ratelimit.Limits{
			PerHour: cfg.RateLimit.PerHour,
			PerDay:  cfg.RateLimit.PerDay,
		}
	}))

	r, err := buildResponder(cfg, limiter, responder.WithStepLogger(func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const identifier = "cli"

	var reply string
	if c.Bool("single") || c.String("template") != "" || c.String("mood") != "" {
		template, ok := models.ParseTemplateType(c.String("template"))
		if !ok && c.String("template") != "" {
			fmt.Printf("Unknown template %q, using %s\n", c.String("template"), template)
		}
		mood, ok := models.ParseMoodType(c.String("mood"))
		if !ok && c.String("mood") != "" {
			fmt.Printf("Unknown mood %q, using %s\n", c.String("mood"), mood)
		}

		reply, err = r.GenerateReply(ctx, responder.Request{
			CommentID:  commentID,
			Template:   template,
			Mood:       mood,
			Identifier: identifier,
		})
	} else {
		var suggestion models.Suggestion
		reply, suggestion, err = r.GenerateWithSuggestion(ctx, commentID, identifier)
		if err == nil {
			fmt.Printf("Used mood: %s, template: %s\n", suggestion.Mood, suggestion.Template)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	fmt.Println("\n--- Generated reply ---")
	fmt.Println(reply)
	return nil
}
