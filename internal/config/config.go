// Package config loads the settings of both binaries from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/milad/energycost/internal/domain"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" env-description:"zerolog level"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"false" env-description:"human readable console output"`
	} `yaml:"log"`

	GRPC struct {
		Addr        string `yaml:"addr" env:"GRPC_ADDR" env-default:":9090"`
		MetricsAddr string `yaml:"metrics_addr" env:"METRICS_ADDR" env-default:":9091" env-description:"prometheus listener of the gRPC server, empty disables it"`
	} `yaml:"grpc"`

	HTTP struct {
		Addr           string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
		GRPCTarget     string        `yaml:"grpc_target" env:"GRPC_TARGET" env-default:"127.0.0.1:9090"`
		WaitTimeout    time.Duration `yaml:"grpc_wait_timeout" env:"GRPC_WAIT_TIMEOUT" env-default:"20s"`
		RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"5s"`
	} `yaml:"http"`

	Store struct {
		Backend       string `yaml:"backend" env:"STORE_BACKEND" env-default:"memory" env-description:"memory, redis or postgres"`
		RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
		RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisPrefix   string `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"readings"`
		PostgresDSN   string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	} `yaml:"store"`

	Seed struct {
		CSV            string `yaml:"csv" env:"SEED_CSV" env-description:"readings CSV loaded at startup"`
		RandomReadings int    `yaml:"random_readings" env:"SEED_RANDOM_READINGS" env-default:"0" env-description:"random readings generated per known meter when no CSV is set"`
	} `yaml:"seed"`

	Timezone string `yaml:"timezone" env:"TIMEZONE" env-default:"Local" env-description:"IANA zone deciding the day of week"`

	PricePlans []PricePlan       `yaml:"price_plans"`
	Accounts   map[string]string `yaml:"accounts"`
}

type PricePlan struct {
	ID                  string               `yaml:"id"`
	EnergySupplier      string               `yaml:"energy_supplier"`
	UnitRate            string               `yaml:"unit_rate"`
	PeakTimeMultipliers []PeakTimeMultiplier `yaml:"peak_time_multipliers"`
}

type PeakTimeMultiplier struct {
	DayOfWeek  string `yaml:"day_of_week"`
	Multiplier string `yaml:"multiplier"`
}

// Load reads path when it is set, then the environment. Env vars win over the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if len(cfg.PricePlans) == 0 {
		cfg.PricePlans = DefaultPricePlans()
	}
	if cfg.Accounts == nil {
		cfg.Accounts = DefaultAccounts()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage describes the environment variables, for -help output.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}

func DefaultPricePlans() []PricePlan {
	return []PricePlan{
		{ID: "price-plan-0", EnergySupplier: "Dr Evil's Dark Energy", UnitRate: "10"},
		{ID: "price-plan-1", EnergySupplier: "The Green Eco", UnitRate: "2"},
		{ID: "price-plan-2", EnergySupplier: "Power for Everyone", UnitRate: "1"},
	}
}

func DefaultAccounts() map[string]string {
	return map[string]string{
		"smart-meter-0": "price-plan-0",
		"smart-meter-1": "price-plan-1",
		"smart-meter-2": "price-plan-0",
		"smart-meter-3": "price-plan-2",
		"smart-meter-4": "price-plan-1",
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store backend %q requires postgres_dsn", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Seed.RandomReadings < 0 {
		return fmt.Errorf("seed.random_readings must be >= 0")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	_, err := c.DomainPricePlans()
	return err
}

// Location resolves Timezone. "Local" and "" mean time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DomainPricePlans converts the configured catalog, keeping its order.
func (c *Config) DomainPricePlans() ([]domain.PricePlan, error) {
	out := make([]domain.PricePlan, 0, len(c.PricePlans))
	seen := make(map[string]bool, len(c.PricePlans))
	for _, p := range c.PricePlans {
		if p.ID == "" {
			return nil, fmt.Errorf("price plan without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate price plan %q", p.ID)
		}
		seen[p.ID] = true

		rate, err := domain.NewDecimal(p.UnitRate)
		if err != nil {
			return nil, fmt.Errorf("price plan %q: unit rate: %w", p.ID, err)
		}
		plan := domain.PricePlan{ID: p.ID, EnergySupplier: p.EnergySupplier, UnitRate: rate}
		for _, m := range p.PeakTimeMultipliers {
			day, err := parseWeekday(m.DayOfWeek)
			if err != nil {
				return nil, fmt.Errorf("price plan %q: %w", p.ID, err)
			}
			mult, err := domain.NewDecimal(m.Multiplier)
			if err != nil {
				return nil, fmt.Errorf("price plan %q: multiplier: %w", p.ID, err)
			}
			plan.PeakTimeMultipliers = append(plan.PeakTimeMultipliers, domain.PeakTimeMultiplier{Day: day, Multiplier: mult})
		}
		out = append(out, plan)
	}
	return out, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", s)
}
