package main

import "steampick/internal/cli"

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.BuildTime = buildTime
	cli.Execute()
}
