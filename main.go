package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"GroundCheck/Config"
	"GroundCheck/FiberConfig"
	"GroundCheck/Models"
	"GroundCheck/middleware"
)

func main() {
	cfg := Config.Load()
	middleware.Setup(cfg)

	if err := Models.Connect(cfg); err != nil {
		log.Fatal("Failed to connect database: ", err)
	}

	app := FiberConfig.NewApp(Models.DB, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("Server up on port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
