package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novarift/server/internal/config"
	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/handler"
	gonet "github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/scripting"
	"github.com/novarift/server/internal/system"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("NOVARIFT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("server", cfg.Server.Name),
		zap.Int("id", cfg.Server.ID),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("database ready")

	accountRepo := persist.NewAccountRepo(db)
	charRepo := persist.NewCharacterRepo(db)
	creatureRepo := persist.NewCreatureRepo(db)
	nameRepo := persist.NewNameRepo(db)

	maps, err := data.LoadMapTable(cfg.World.MapListPath)
	if err != nil {
		return fmt.Errorf("map table: %w", err)
	}
	log.Info("map table loaded", zap.Int("maps", maps.Count()))

	missions, err := scripting.LoadMissions(cfg.World.MissionScripts, log)
	if err != nil {
		return fmt.Errorf("mission scripts: %w", err)
	}

	creatureTypes, err := system.LoadCreatureTypes(ctx, creatureRepo, log)
	if err != nil {
		return fmt.Errorf("creature types: %w", err)
	}

	registry := entity.NewRegistry()
	channels := world.NewChannelManager(maps, log)

	deps := &handler.Deps{
		Registry:      registry,
		Channels:      channels,
		Missions:      world.NewMissionTable(missions),
		CreatureTypes: creatureTypes,
		AccountRepo:   accountRepo,
		CharRepo:      charRepo,
		CreatureRepo:  creatureRepo,
		NameRepo:      nameRepo,
		Config:        cfg,
		Log:           log,
	}

	for _, info := range maps.All() {
		ch := channels.Get(info.MapID)
		if err := system.SpawnMapCreatures(ctx, ch, deps); err != nil {
			return fmt.Errorf("spawn map %d: %w", info.MapID, err)
		}
	}

	reg := packet.NewRegistry(log)
	handler.RegisterAll(reg, deps)

	pktPerSec := 0
	if cfg.RateLimit.Enabled {
		pktPerSec = cfg.RateLimit.PacketsPerSecond
	}
	netServer, err := gonet.NewServer(
		cfg.Network.BindAddress,
		gonet.SessionConfig{
			InQueueSize:  cfg.Network.InQueueSize,
			OutQueueSize: cfg.Network.OutQueueSize,
			PktPerSec:    pktPerSec,
			ReadTimeout:  cfg.Network.ReadTimeout,
			WriteTimeout: cfg.Network.WriteTimeout,
		},
		reg,
		log,
	)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	netServer.OnSessionClose(func(sess *gonet.Session) {
		handler.SessionClosed(sess, deps)
	})
	go netServer.AcceptLoop()
	log.Info("listening", zap.String("addr", netServer.Addr().String()))

	ticker := system.NewChannelTicker(channels, deps, cfg.World.ChannelTickRate, log)
	go ticker.Run()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("shutting down", zap.String("signal", sig.String()))

	netServer.Shutdown()
	ticker.Stop()
	channels.ShutdownAll()
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
