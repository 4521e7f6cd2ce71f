package main

import (
	"context"
	"log"

	"github.com/Apurer/repairshop-api/internal/app/worker"
)

func main() {
	if err := worker.Run(context.Background()); err != nil {
		log.Fatalf("worker exited: %v", err)
	}
}
