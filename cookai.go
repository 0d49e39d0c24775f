package main

import (
	_ "embed"
	"fmt"
	"os"

	cli "github.com/cookaihq/cookai/cmd/cookai"
	"github.com/cookaihq/cookai/internal/config"

	"github.com/joho/godotenv"
)

//go:embed etc/cookai.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Load embedded config (defaults)
	var c config.Config
	if err := config.LoadFromBytes(embeddedConfig, &c); err != nil {
		fmt.Printf("Failed to load embedded config: %v\n", err)
		os.Exit(1)
	}

	if path := os.Getenv("COOKAI_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Printf("Failed to load config %s: %v\n", path, err)
			os.Exit(1)
		}
		c = loaded
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
