package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kunmmi/whisper/cmd"
)

func main() {
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
