package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/services"
)

// @title        todolist API
// @version      1.0
// @description  Todo list with filtering, sorting, pagination and completion metrics.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "path to the YAML config file")
	hashPassword := pflag.String("hash-password", "", "print a bcrypt hash for auth.users[].password_hash and exit")
	pflag.Parse()

	if *hashPassword != "" {
		hash, err := services.NewAuthService("", 0, nil).HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Printf("server: %v", err)
		a.Close()
		os.Exit(1)
	}
}
