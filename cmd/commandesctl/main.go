package main

import (
	"github.com/diewo77/go-commandes/internal/cmd"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cmd.Execute()
}
