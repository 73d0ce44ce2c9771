package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"roadguard-service/internal/auth"
	"roadguard-service/internal/config"
	"roadguard-service/internal/db"
	httphandler "roadguard-service/internal/http"
	"roadguard-service/internal/http/middleware"
	"roadguard-service/internal/logger"
	"roadguard-service/internal/metrics"
	"roadguard-service/internal/notify"
	"roadguard-service/internal/repository"
	"roadguard-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	violationRepo := repository.NewViolationRepository(database)
	challanRepo := repository.NewChallanRepository(database)
	hazardRepo := repository.NewHazardRepository(database)

	m := metrics.New(prometheus.DefaultRegisterer)

	sender := notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	dispatcher := notify.NewDispatcher(sender, log, m.NotificationFailures, cfg.Notify.Timeout)
	defer dispatcher.Wait()

	fines := service.NewFineSchedule()
	issuer := service.NewChallanIssuer()

	violationService := service.NewViolationService(violationRepo, fines, issuer, dispatcher, m, log)
	hazardService := service.NewHazardService(hazardRepo, dispatcher, m, log)
	queryService := service.NewReportQueryService(violationRepo, challanRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(violationService, hazardService, queryService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting roadguard service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
