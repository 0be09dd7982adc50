package main

import (
	"log"

	_ "github.com/minhpbb/kanban/docs"
	"github.com/minhpbb/kanban/internal/config"
	"github.com/minhpbb/kanban/internal/server"
)

// @title           Kanban API
// @version         1.0
// @description     Project and task collaboration API.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
