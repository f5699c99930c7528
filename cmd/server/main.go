package main

import (
	"os"

	"capture-gpt/backend/internal/app"
)

// @title           Capture This GPT API
// @version         1.0
// @description     Local conversation and persistence engine for the Capture This GPT chat client.
// @host            localhost:8000
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
