// Package main runs the hoosfit MCP server over stdio.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/2beens/hoosfit/internal/config"
	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness"
	hoosfitmcp "github.com/2beens/hoosfit/internal/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	dotEnvPath := flag.String("dotenv", ".env", "optional dotenv file with secrets")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets(*dotEnvPath)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	server := hoosfitmcp.NewServer(dbPool, fitness.NewClock(cfg.Location()))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
