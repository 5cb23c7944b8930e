package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var ErrInvalidValue = errors.New("invalid config value")

type Config struct {
	Env               string
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	LivenessEndpoint  string
	Seed              bool
	LateFeeRate       decimal.Decimal
}

func defaults() Config {
	return Config{
		Env:               "production",
		Host:              "localhost",
		Port:              "8092",
		ReadHeaderTimeout: 20 * time.Second, //nolint:gomnd
		ShutdownTimeout:   4 * time.Second,  //nolint:gomnd
		LivenessEndpoint:  "/liveness",
		Seed:              true,
		LateFeeRate:       decimal.NewFromFloat(0.5), //nolint:gomnd
	}
}

// Load reads a .env file from the working directory when one exists and
// then overlays HOTEL_* environment variables on top of the defaults.
// Variables already present in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	conf := defaults()

	if v, ok := lookup("HOTEL_ENV"); ok && v != "" {
		conf.Env = v
	}

	if v, ok := lookup("HOTEL_HOST"); ok && v != "" {
		conf.Host = v
	}

	if v, ok := lookup("HOTEL_PORT"); ok && v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return Config{}, fmt.Errorf("HOTEL_PORT %q: %w", v, ErrInvalidValue)
		}

		conf.Port = v
	}

	var err error

	if conf.ReadHeaderTimeout, err = durationVar(lookup, "HOTEL_READ_HEADER_TIMEOUT", conf.ReadHeaderTimeout); err != nil {
		return Config{}, err
	}

	if conf.ShutdownTimeout, err = durationVar(lookup, "HOTEL_SHUTDOWN_TIMEOUT", conf.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	if v, ok := lookup("HOTEL_LIVENESS_ENDPOINT"); ok && v != "" {
		if v[0] != '/' {
			return Config{}, fmt.Errorf("HOTEL_LIVENESS_ENDPOINT %q must start with '/': %w", v, ErrInvalidValue)
		}

		conf.LivenessEndpoint = v
	}

	if v, ok := lookup("HOTEL_SEED"); ok && v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("HOTEL_SEED %q: %w", v, ErrInvalidValue)
		}

		conf.Seed = seed
	}

	if v, ok := lookup("HOTEL_LATE_FEE_RATE"); ok && v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			return Config{}, fmt.Errorf("HOTEL_LATE_FEE_RATE %q: %w", v, ErrInvalidValue)
		}

		conf.LateFeeRate = rate
	}

	return conf, nil
}

// durationVar accepts Go duration strings ("15s") or a plain number of seconds.
func durationVar(lookup func(string) (string, bool), name string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}

	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, v, ErrInvalidValue)
	}

	return d, nil
}
