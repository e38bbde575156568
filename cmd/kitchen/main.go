package main

import "github.com/joho/godotenv"

func main() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()
	Execute()
}
