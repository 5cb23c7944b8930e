package main

import (
	"fmt"
	"os"

	"github.com/avstrong/hotel/internal/app"
	"github.com/avstrong/hotel/internal/config"
	"github.com/avstrong/hotel/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)

		return 1
	}

	z, err := logger.NewZap(conf.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)

		return 1
	}

	l := logger.New(z)

	defer func() {
		_ = l.Sync()
	}()

	if err := app.Run(conf, z); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		return 1
	}

	return 0
}
