package main

import (
	"openspace_backend/startup"
	"openspace_backend/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
