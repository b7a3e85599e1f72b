package main

import (
	"eventhub-api/core/logger"
	"eventhub-api/core/server"

	_ "eventhub-api/docs" // Swagger docs
)

// @title EventHub API
// @version 1.0
// @description Event management backend: organizers publish events, attendees RSVP, and uploaded resumes are parsed into structured profiles.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
