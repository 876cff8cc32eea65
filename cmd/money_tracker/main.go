package main

import (
	"os"
)

//go:generate swag init -g cmd/money_tracker/main.go -o cmd/docs --dir ../../ --parseInternal

// @title Money Tracker API
// @version 1.0
// @description Personal income, expense and debt tracking with payment ledgers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
