package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmorales/fleet-visits/internal/auth"
	"github.com/hmorales/fleet-visits/internal/config"
	"github.com/hmorales/fleet-visits/internal/db"
	"github.com/hmorales/fleet-visits/internal/excel"
	httphandler "github.com/hmorales/fleet-visits/internal/http"
	"github.com/hmorales/fleet-visits/internal/http/middleware"
	"github.com/hmorales/fleet-visits/internal/logger"
	"github.com/hmorales/fleet-visits/internal/pdf"
	"github.com/hmorales/fleet-visits/internal/repository"
	"github.com/hmorales/fleet-visits/internal/service"
	"github.com/hmorales/fleet-visits/internal/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	clientRepo := repository.NewClientRepository(database)

	processor := trip.NewProcessor(trip.Options{
		SourceZone:        loadZone(cfg.Trip.SourceZone, log),
		TargetZone:        loadZone(cfg.Trip.TargetZone, log),
		Markers:           trip.Markers{Start: cfg.Trip.StartMarkers, End: cfg.Trip.EndMarkers},
		MatchRadiusM:      cfg.Trip.MatchRadiusM,
		MinStopMinutes:    cfg.Trip.MinStopMinutes,
		SpecialClientKeys: cfg.Trip.SpecialClientKeys,
	}, log)

	visitService := service.NewVisitService(clientRepo, processor, excel.NewGenerator(), pdf.NewGenerator(), cfg)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(visitService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting visits service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// loadZone resolves an IANA zone name, keeping raw clocks when the host
// has no tzdata for it.
func loadZone(name string, log zerolog.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("zone", name).Msg("time zone unavailable, clocks kept as-is")
		return nil
	}
	return loc
}
