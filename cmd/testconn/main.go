package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/domaingen/api/internal/config"
	"github.com/domaingen/api/internal/llm"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	device := llm.ResolveDevice(cfg.Model.Device)
	fmt.Printf("Connecting to %s backend at %s (device %s)\n", cfg.Model.Backend, cfg.Model.BaseURL, device)

	backend, err := llm.NewBackend(cfg.Model, device)
	if err != nil {
		fmt.Printf("Error creating backend: %v\n", err)
		os.Exit(1)
	}

	if err := backend.Ping(ctx); err != nil {
		fmt.Printf("Error pinging: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connection successful!")

	if err := backend.EnsureModel(ctx); err != nil {
		fmt.Printf("Error checking model %q: %v\n", cfg.Model.Name, err)
		os.Exit(1)
	}
	fmt.Printf("Model %q is available\n", cfg.Model.Name)

	if _, err := llm.NewTiktokenTokenizer(cfg.Tokenizer.Encoding, cfg.Tokenizer.MaxInputTokens); err != nil {
		fmt.Printf("Error loading tokenizer %q: %v\n", cfg.Tokenizer.Encoding, err)
		os.Exit(1)
	}
	fmt.Printf("Tokenizer %q loaded\n", cfg.Tokenizer.Encoding)
}
