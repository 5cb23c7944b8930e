package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/clock"
	"github.com/avstrong/hotel/internal/config"
	"github.com/avstrong/hotel/internal/idgen/simple"
	"github.com/avstrong/hotel/internal/logger"
	"github.com/avstrong/hotel/internal/migration"
	"github.com/avstrong/hotel/internal/storage/memory"
	"github.com/avstrong/hotel/internal/transport/web"
	"go.uber.org/zap"
)

func Run(conf config.Config, z *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	l := logger.New(z)
	clk := clock.NewSystem()

	storage := memory.New(memory.Config{L: l.With("component", "storage")})
	hotel := booking.New(
		l.With("component", "booking"),
		storage,
		simple.New(),
		clk,
		booking.WithLateFeeRate(conf.LateFeeRate),
		booking.WithCustomerIDGenerator(simple.New()),
	)

	if conf.Seed {
		if err := migration.Up(ctx, l, hotel, clk.Now()); err != nil {
			return fmt.Errorf("seed sample hotel: %w", err)
		}

		l.LogInfo("Sample hotel has been seeded")
	}

	webConf := web.Conf{
		L:                 l.With("component", "web"),
		ServerLogger:      zap.NewStdLog(z),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
	}

	srv, err := web.New(ctx, webConf, hotel)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		cancel()

		return fmt.Errorf("run http server: %w", err)
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
