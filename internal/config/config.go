package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/qnet"
)

const (
	ModeTrain   = "train"
	ModeArena   = "arena"
	ModePlay    = "play"
	ModeHistory = "history"

	OpponentSelf   = "self"
	OpponentRandom = "random"

	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	LogLevel          string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Mode              string      `yaml:"mode" env:"MODE" env-default:"train"`
	Training          Training    `yaml:"training"`
	Network           qnet.Config `yaml:"network"`
	Models            Models      `yaml:"models"`
	Redis             Redis       `yaml:"redis"`
	Arena             Arena       `yaml:"arena"`
	Play              Play        `yaml:"play"`
	History           History     `yaml:"history"`
	SQLiteStoragePath string      `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH"`
	ReportPath        string      `yaml:"report-path" env:"REPORT_PATH"`
}

type Training struct {
	Episodes       int     `yaml:"episodes" env:"EPISODES" env-default:"5000"`
	InitialRate    float64 `yaml:"initial-rate" env-default:"1.0"`
	FinalRate      float64 `yaml:"final-rate" env-default:"0.1"`
	AnnealFraction float64 `yaml:"anneal-fraction" env-default:"0.4"`
	ReportInterval int     `yaml:"report-interval" env-default:"500"`
	MoveRetries    int     `yaml:"move-retries" env-default:"0"`
	Opponent       string  `yaml:"opponent" env-default:"self"`
	Seed           uint64  `yaml:"seed" env:"SEED" env-default:"0"`
}

type Models struct {
	Backend string `yaml:"backend" env:"MODEL_BACKEND" env-default:"file"`
	Dir     string `yaml:"dir" env-default:"models"`
	Name    string `yaml:"name" env-default:"tictactoe"`
}

// XName is the name the X-side network is saved under.
func (that Models) XName() string {
	return that.Name + "_x"
}

// OName is the name the O-side network is saved under.
func (that Models) OName() string {
	return that.Name + "_o"
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Arena struct {
	Episodes        int     `yaml:"episodes" env-default:"1000"`
	ExplorationRate float64 `yaml:"exploration-rate" env-default:"0.1"`
}

type Play struct {
	HumanMark    string        `yaml:"human-mark" env-default:"X"`
	ModelName    string        `yaml:"model-name"`
	ModelRetries int           `yaml:"model-retries" env-default:"2"`
	ThinkDelay   time.Duration `yaml:"think-delay" env-default:"0s"`
	// Plain turns off ANSI colours on the board.
	Plain bool `yaml:"plain" env:"PLAIN"`
}

type History struct {
	Limit int `yaml:"limit" env-default:"10"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Validate rejects settings no run could start with.
func (that *Config) Validate() error {
	switch that.Mode {
	case ModeTrain, ModeArena, ModePlay:
	case ModeHistory:
		if that.SQLiteStoragePath == "" {
			return fmt.Errorf("%w: history needs sqlite-storage-path", apperror.ErrInvalidConfig)
		}

		if that.History.Limit <= 0 {
			return fmt.Errorf("%w: history limit must be positive", apperror.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", apperror.ErrInvalidConfig, that.Mode)
	}

	switch that.Models.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown model backend %q", apperror.ErrInvalidConfig, that.Models.Backend)
	}

	if that.Models.Name == "" {
		return fmt.Errorf("%w: model name is empty", apperror.ErrInvalidConfig)
	}

	if err := that.Training.validate(); err != nil {
		return err
	}

	if that.Arena.Episodes <= 0 {
		return fmt.Errorf("%w: arena episodes must be positive", apperror.ErrInvalidConfig)
	}

	if !validRate(that.Arena.ExplorationRate) {
		return fmt.Errorf("%w: %w: arena rate %v", apperror.ErrInvalidConfig,
			apperror.ErrInvalidExplorationRate, that.Arena.ExplorationRate)
	}

	if that.Play.HumanMark != "X" && that.Play.HumanMark != "O" {
		return fmt.Errorf("%w: human mark must be X or O, got %q", apperror.ErrInvalidConfig, that.Play.HumanMark)
	}

	if that.Play.ModelRetries < 0 {
		return fmt.Errorf("%w: model retries must not be negative", apperror.ErrInvalidConfig)
	}

	if len(that.Network.HiddenLayers) == 0 {
		return fmt.Errorf("%w: network needs at least one hidden layer", apperror.ErrInvalidConfig)
	}

	for _, width := range that.Network.HiddenLayers {
		if width <= 0 {
			return fmt.Errorf("%w: hidden layer width %d", apperror.ErrInvalidConfig, width)
		}
	}

	return nil
}

func (that *Training) validate() error {
	switch {
	case that.Episodes <= 0:
		return fmt.Errorf("%w: episodes must be positive, got %d", apperror.ErrInvalidConfig, that.Episodes)
	case !validRate(that.InitialRate) || !validRate(that.FinalRate):
		return fmt.Errorf("%w: %w: %v -> %v", apperror.ErrInvalidConfig,
			apperror.ErrInvalidExplorationRate, that.InitialRate, that.FinalRate)
	case !(that.AnnealFraction > 0 && that.AnnealFraction <= 1):
		return fmt.Errorf("%w: anneal fraction must be in (0, 1], got %v", apperror.ErrInvalidConfig, that.AnnealFraction)
	case that.ReportInterval < 0:
		return fmt.Errorf("%w: report interval must not be negative", apperror.ErrInvalidConfig)
	case that.MoveRetries < 0:
		return fmt.Errorf("%w: move retries must not be negative", apperror.ErrInvalidConfig)
	}

	switch that.Opponent {
	case OpponentSelf, OpponentRandom:
	default:
		return fmt.Errorf("%w: unknown opponent %q", apperror.ErrInvalidConfig, that.Opponent)
	}

	return nil
}

func validRate(rate float64) bool {
	return rate >= 0 && rate <= 1
}
