// Command hash-password prints bcrypt digests for seeding users directly into
// the database. Each argument is hashed; with no arguments, one password per
// line is read from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := run(context.Background(), *cost, flag.Args(), os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "hash-password: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cost int, args []string, in io.Reader, out io.Writer, logger *slog.Logger) error {
	pool := auth.NewHashPool(auth.DefaultHashPoolConfig(), logger)
	pool.Start()
	defer pool.Stop()
	credentials := auth.NewBcryptCredentialService(cost, pool)
	if credentials.Cost() != cost {
		logger.Warn("bcrypt cost out of range, using default",
			"requested", cost,
			"cost", credentials.Cost())
	}

	passwords := args
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			passwords = append(passwords, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	logger.Info("hashing passwords", "count", len(passwords), "cost", credentials.Cost())
	for _, password := range passwords {
		if err := domain.ValidatePassword(password); err != nil {
			return fmt.Errorf("password rejected: %w", err)
		}
		digest, err := credentials.Hash(ctx, password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := fmt.Fprintln(out, digest); err != nil {
			return err
		}
	}
	return nil
}
