package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"moodspec/internal/infra"
	"moodspec/internal/infra/credentials"
)

func main() {
	var (
		keyFlag    string
		deleteFlag bool
		statusFlag bool
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key to store (falls back to GEMINI_API_KEY)")
	flag.BoolVar(&deleteFlag, "delete", false, "remove the stored key")
	flag.BoolVar(&statusFlag, "status", false, "show where the key would be resolved from")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewCLILogger(cfg.AppEnv).With().Str("cmd", "geminikey").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := credentials.OpenStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := run(ctx, store, keyFlag, deleteFlag, statusFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeStore()
		os.Exit(1)
	}
}

func run(ctx context.Context, store credentials.KeyStore, key string, remove, status bool) error {
	switch {
	case status:
		_, source, err := credentials.NewResolver(store).Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve key: %w", err)
		}
		fmt.Printf("source: %s\n", source)
		return nil
	case remove:
		if err := store.DeleteUserKey(ctx); err != nil {
			return fmt.Errorf("failed to remove api key: %w", err)
		}
		fmt.Println("Gemini API key removed")
		return nil
	}

	key = strings.TrimSpace(key)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		return fmt.Errorf("GEMINI API key is required via -key or environment")
	}
	if err := store.SetUserKey(ctx, key); err != nil {
		return fmt.Errorf("failed to persist api key: %w", err)
	}
	fmt.Printf("Gemini API key stored under %q\n", credentials.StorageKey)
	return nil
}
