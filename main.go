package main

import (
	"github.com/joho/godotenv"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env with provider credentials; absence is fine.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
