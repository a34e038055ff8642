package main

import (
	"context"
	"log"

	"insurance-faq-be/internal/bootstrap"
	"insurance-faq-be/internal/config"
	"insurance-faq-be/internal/server"
	"insurance-faq-be/internal/tracer"
	"insurance-faq-be/pkg/database"
)

func main() {
	// 0. Initialize tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start the ingestion worker
	go func() {
		log.Println("Background: starting ingestion worker...")
		if err := container.IngestionService.Consume(context.Background()); err != nil {
			log.Printf("Background ingestion error: %v", err)
		}
	}()

	// 5. Run server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
