package main

import (
	"github.com/joho/godotenv"

	"github.com/iliyamo/seat-arbiter/internal/cli"
)

func main() {
	_ = godotenv.Load() // JWT_SECRET may come from .env
	cli.Execute()
}
