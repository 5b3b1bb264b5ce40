package main

import (
	"os"

	"github.com/yigit/ais/internal/pkg/logger"
	"github.com/yigit/ais/internal/server"
)

// @title Academic Information System API
// @version 1.0
// @description Role-based API for groups, subjects, teacher assignments and grades

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token, also accepted from the session cookie

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Details are logged inside the bootstrap steps
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
