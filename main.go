package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/boardy-hostel/boardy-api/cmd/app"
)

//go:generate swag init --parseDependency --parseInternal

// @title           Boardy API
// @version         1.0
// @description     Board game rentals and game nights for hostel residents.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
