package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/milad/energycost/internal/config"
	"github.com/milad/energycost/internal/logging"
	"github.com/milad/energycost/internal/repo"
	"github.com/milad/energycost/internal/repo/csvrepo"
	"github.com/milad/energycost/internal/repo/memrepo"
	"github.com/milad/energycost/internal/repo/pgrepo"
	"github.com/milad/energycost/internal/repo/redisrepo"
	"github.com/milad/energycost/internal/repo/seed"
	pricingv1 "github.com/milad/energycost/internal/rpc/pricingv1"
	"github.com/milad/energycost/internal/service"
	grpcserver "github.com/milad/energycost/internal/transport/grpc"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage())
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readings, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("open reading store")
	}
	defer closeStore()

	plans, err := cfg.DomainPricePlans()
	if err != nil {
		log.Fatal().Err(err).Msg("price plans")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("timezone")
	}
	catalog := memrepo.NewCatalog(plans)
	accounts := memrepo.NewAccounts(cfg.Accounts)

	if err := seedReadings(ctx, cfg, readings, accounts.MeterIDs()); err != nil {
		log.Fatal().Err(err).Msg("seed readings")
	}

	api := grpcserver.New(
		service.NewMeterReadingService(readings),
		service.NewPricePlanService(readings, catalog, accounts, service.WithLocation(loc)),
	)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPC.Addr).Msg("listen")
	}
	log.Info().Str("addr", cfg.GRPC.Addr).Str("backend", cfg.Store.Backend).Int("price_plans", len(plans)).Msg("gRPC listening")

	g := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcserver.UnaryInterceptor))
	pricingv1.RegisterPricingServiceServer(g, api)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(pricingv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(g, hs)

	metrics := serveMetrics(cfg.GRPC.MetricsAddr)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down gRPC")
		hs.Shutdown()
		ch := make(chan struct{})
		go func() {
			g.GracefulStop()
			close(ch)
		}()
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			g.Stop()
		}
		if metrics != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(shutdownCtx)
		}
	}()

	if err := g.Serve(lis); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

// openStore builds the configured reading store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (repo.ReadingRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisrepo.Connect(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewStore(client, cfg.Store.RedisPrefix), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		store, err := pgrepo.Open(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return memrepo.NewReadings(), func() {}, nil
	}
}

// seedReadings loads the configured CSV, or generates random readings for the known
// meters when no CSV is set.
func seedReadings(ctx context.Context, cfg *config.Config, store repo.ReadingRepository, meterIDs []string) error {
	if cfg.Seed.CSV != "" {
		n, err := csvrepo.LoadFile(ctx, cfg.Seed.CSV, store)
		if err != nil && n == 0 {
			return err
		}
		if err != nil {
			// A few bad rows are tolerated as long as some readings were usable.
			log.Warn().Err(err).Msg("csv seed has invalid rows")
		}
		log.Info().Str("path", cfg.Seed.CSV).Int("readings", n).Msg("seeded readings from csv")
		return nil
	}
	if cfg.Seed.RandomReadings == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := seed.Meters(ctx, store, meterIDs, cfg.Seed.RandomReadings, time.Now(), rng); err != nil {
		return err
	}
	log.Info().Int("meters", len(meterIDs)).Int("readings_per_meter", cfg.Seed.RandomReadings).Msg("seeded random readings")
	return nil
}

func serveMetrics(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	return srv
}
