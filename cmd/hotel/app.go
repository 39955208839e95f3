package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotel/internal/config"
	"hotel/internal/events"
	"hotel/internal/hotel"
	"hotel/internal/metrics"
	"hotel/internal/session"
	"hotel/internal/storage"
)

// app is everything a command needs once the config is loaded.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	bus     *events.EventBus
	store   storage.Store
	backups *storage.BackupService
	hotel   *hotel.Hotel
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

// openApp loads the config, opens the store and restores the hotel. A
// store that cannot be read yields an empty hotel.
func openApp(configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg, logger: newLogger(logOut, cfg.Log.Level)}

	a.bus = events.NewEventBus()
	a.bus.Subscribe(events.Wildcard, events.NewLogHandler(&a.logger))
	metrics.Register()
	metrics.Subscribe(a.bus)

	a.store, err = storage.Open(cfg.Storage.Driver, cfg.Storage.DataDir, cfg.Storage.SQLitePath, &a.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.backups = storage.NewBackupService(cfg.Backup.Path, cfg.Backup.RetentionDays, &a.logger)

	a.load()
	return a, nil
}

func (a *app) load() {
	var st hotel.State
	if a.store.Exists() {
		loaded, err := a.store.Load()
		if err != nil {
			a.logger.Warn().Err(err).Msg("Failed to load hotel data, starting empty")
		} else {
			st = loaded
		}
	}
	if st.Name == "" {
		st.Name = a.cfg.Hotel.Name
		st.Address = a.cfg.Hotel.Address
	}

	h, res := hotel.FromState(st,
		hotel.WithTariff(a.cfg.Tariff()),
		hotel.WithPolicy(a.cfg.Policy()),
		hotel.WithPublisher(a.bus),
	)
	for _, err := range res.Skipped {
		a.logger.Warn().Err(err).Msg("Skipped stored record")
	}
	if res.DroppedServices > 0 {
		a.logger.Warn().Int("count", res.DroppedServices).Msg("Dropped unknown services from reservations")
	}
	if len(res.OccupancyFixed) > 0 {
		a.logger.Warn().Ints("rooms", res.OccupancyFixed).Msg("Room occupancy corrected from reservations")
	}
	a.logger.Info().
		Str("hotel", h.Name).
		Int("rooms", res.Rooms).
		Int("guests", res.Guests).
		Int("services", res.Services).
		Int("reservations", res.Reservations).
		Msg("Hotel loaded")

	metrics.SetOccupancy(h.Rooms.OccupancyRate())
	a.hotel = h
}

// save backs up the previous data when enabled, then writes the hotel.
func (a *app) save() error {
	if a.cfg.Backup.Enabled {
		if _, err := a.backups.PerformBackup(a.store); err != nil {
			a.logger.Error().Err(err).Msg("Backup failed")
		}
	}
	if err := a.store.Save(a.hotel.Export()); err != nil {
		return err
	}
	a.logger.Info().Msg("Hotel saved")
	return nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close storage")
	}
}

// guard returns the redis session lock when redis is configured.
func (a *app) guard() (session.Guard, func()) {
	if a.cfg.Session.RedisAddress == "" {
		return session.NopGuard{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Session.RedisAddress,
		Password: a.cfg.Session.RedisPassword,
		DB:       a.cfg.Session.RedisDB,
	})
	resource := a.cfg.Storage.DataDir
	if a.cfg.Storage.Driver == storage.DriverSQLite {
		resource = a.cfg.Storage.SQLitePath
	}
	g := session.NewRedisGuard(rdb, resource, a.cfg.LockTTL(), &a.logger)
	return g, func() { _ = rdb.Close() }
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
