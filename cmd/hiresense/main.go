// Command hiresense builds and queries the textbook retrieval index used by
// the mock-interview agent.
package main

import (
	"os"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
