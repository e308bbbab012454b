package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/config"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/qnet"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/report"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/service"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/usecase"
	"golang.org/x/exp/rand"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// Agents draw from seed and seed+1, networks from seed+networkSeedOffset onward.
const networkSeedOffset = 1000

type app struct {
	logger *slog.Logger
	conf   *config.Config

	models service.ModelService
	runs   service.RunService
	seed   uint64
}

// RunApp - runs the application in the configured mode.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	modelRepo, closeModels, err := openModelRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeModels(); err != nil {
			log.Error("could not close model storage", "error", err)
		}
	}()

	application := &app{
		logger: logger,
		conf:   conf,
		models: service.NewModelService(modelRepo),
		seed:   conf.Training.Seed,
	}

	if application.seed == 0 {
		application.seed = uint64(time.Now().UnixNano())
	}

	if conf.SQLiteStoragePath != "" {
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
		if err != nil {
			return fmt.Errorf("could not open sqlite storage: %w", err)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not migrate sqlite storage: %w", err)
		}

		application.runs = service.NewRunService(repository.NewRunRepository(sqliteStorage))
	}

	log.Info("Starting", "mode", conf.Mode, "seed", application.seed)

	switch conf.Mode {
	case config.ModeTrain:
		return application.train(ctx)
	case config.ModeArena:
		return application.arena(ctx)
	case config.ModeHistory:
		return application.history(ctx, os.Stdout)
	default:
		return application.play(ctx)
	}
}

func openModelRepository(ctx context.Context, conf *config.Config) (repository.ModelRepository, func() error, error) {
	if conf.Models.Backend == config.BackendFile {
		return repository.NewFileModelRepository(conf.Models.Dir), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewModelRepository(redisStorage.Connection), redisStorage.Close, nil
}

func (that *app) train(ctx context.Context) error {
	log := that.logger.With("component", "app", "method", "train")
	startedAt := time.Now()

	networkX := qnet.New(that.conf.Network, rand.NewSource(that.seed+networkSeedOffset))
	playerX := agent.NewLearningAgent(that.logger, networkX, rand.NewSource(that.seed))

	var (
		networkO *qnet.Network
		playerO  agent.Agent
	)

	if that.conf.Training.Opponent == config.OpponentRandom {
		playerO = agent.NewRandomAgent(rand.NewSource(that.seed + 1))
	} else {
		networkO = qnet.New(that.conf.Network, rand.NewSource(that.seed+networkSeedOffset+1))
		playerO = agent.NewLearningAgent(that.logger, networkO, rand.NewSource(that.seed+1))
	}

	training := that.conf.Training
	trainer, err := usecase.NewTrainer(that.logger, usecase.TrainingConfig{
		Episodes:       training.Episodes,
		AnnealEpisodes: usecase.AnnealHorizon(training.Episodes, training.AnnealFraction),
		InitialRate:    training.InitialRate,
		FinalRate:      training.FinalRate,
		ReportInterval: training.ReportInterval,
		MoveRetries:    training.MoveRetries,
	}, playerX, playerO)
	if err != nil {
		return fmt.Errorf("could not create trainer: %w", err)
	}

	tally, err := trainer.Run(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	if err = that.models.Save(ctx, that.conf.Models.XName(), networkX); err != nil {
		return err
	}

	if networkO != nil {
		if err = that.models.Save(ctx, that.conf.Models.OName(), networkO); err != nil {
			return err
		}
	}

	log.Info("Models saved", "x", that.conf.Models.XName(), "o", that.conf.Models.OName(), "backend", that.conf.Models.Backend)

	if that.conf.ReportPath != "" {
		if err = report.WriteFile(that.conf.ReportPath, trainer.Checkpoints()); err != nil {
			log.Warn("could not write training report", "error", err)
		} else {
			log.Info("Training report written", "path", that.conf.ReportPath)
		}
	}

	that.record(ctx, entity.ModeTrain, training.Episodes, startedAt, tally)

	return nil
}

func (that *app) arena(ctx context.Context) error {
	log := that.logger.With("component", "app", "method", "arena")
	startedAt := time.Now()

	playerX := agent.NewLearningAgent(that.logger, that.loadNetwork(ctx, that.conf.Models.XName()), rand.NewSource(that.seed))
	playerO := agent.NewLearningAgent(that.logger, that.loadNetwork(ctx, that.conf.Models.OName()), rand.NewSource(that.seed+1))

	arena, err := usecase.NewArena(that.logger, usecase.ArenaConfig{
		Episodes:        that.conf.Arena.Episodes,
		ExplorationRate: that.conf.Arena.ExplorationRate,
	}, playerX, playerO)
	if err != nil {
		return fmt.Errorf("could not create arena: %w", err)
	}

	tally, err := arena.Run(ctx)
	if err != nil {
		return fmt.Errorf("arena failed: %w", err)
	}

	log.Info("Arena finished", "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)
	fmt.Fprintf(os.Stdout, "X wins: %d, O wins: %d, Draws: %d\n", tally.XWins, tally.OWins, tally.Draws)

	that.record(ctx, entity.ModeArena, that.conf.Arena.Episodes, startedAt, tally)

	return nil
}

func (that *app) play(ctx context.Context) error {
	humanMark := entity.Mark(that.conf.Play.HumanMark)

	modelName := that.conf.Play.ModelName
	if modelName == "" {
		modelName = that.conf.Models.OName()
		if humanMark == entity.PlayerO {
			modelName = that.conf.Models.XName()
		}
	}

	model := agent.NewLearningAgent(that.logger, that.loadNetwork(ctx, modelName), rand.NewSource(that.seed))
	if err := model.SetExplorationRate(0); err != nil {
		return err
	}

	session, err := usecase.NewSession(that.logger, usecase.SessionConfig{
		HumanMark:    humanMark,
		ModelRetries: that.conf.Play.ModelRetries,
		ThinkDelay:   that.conf.Play.ThinkDelay,
		Colored:      !that.conf.Play.Plain,
	}, agent.NewHumanAgent(os.Stdin, os.Stdout), model, os.Stdout)
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}

	if _, err = session.Play(ctx); err != nil {
		if errors.Is(err, agent.ErrInputClosed) {
			that.logger.Info("Input closed, leaving the game")
			return nil
		}

		return fmt.Errorf("game failed: %w", err)
	}

	return nil
}

// history prints the most recent train and arena runs, newest first.
func (that *app) history(ctx context.Context, out io.Writer) error {
	runs, err := that.runs.Recent(ctx, that.conf.History.Limit)
	if err != nil {
		return err
	}

	return report.WriteHistory(out, runs)
}

// loadNetwork restores a saved network, falling back to a fresh one.
func (that *app) loadNetwork(ctx context.Context, name string) *qnet.Network {
	network := qnet.New(that.conf.Network, rand.NewSource(that.seed+networkSeedOffset))

	if err := that.models.Load(ctx, name, network); err != nil {
		that.logger.Warn("could not load model, playing untrained", "model", name, "error", err)
	}

	return network
}

func (that *app) record(ctx context.Context, mode string, episodes int, startedAt time.Time, tally entity.Tally) {
	if that.runs == nil {
		return
	}

	run, err := that.runs.Record(ctx, mode, episodes, startedAt, tally)
	if err != nil {
		that.logger.Warn("could not record run", "mode", mode, "error", err)
		return
	}

	that.logger.Info("Run recorded", "id", run.ID, "mode", mode)
}
