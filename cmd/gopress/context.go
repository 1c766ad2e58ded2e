package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"gopress/internal/config"
	"gopress/internal/history"
	"gopress/internal/logging"
	"gopress/internal/progress"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	engineFlag   *string

	configOnce sync.Once
	config     config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag, engineFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		engineFlag:   engineFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, string, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configPath, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		level := ""
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		logger, err := logging.New(logging.Options{Level: level, Output: os.Stderr})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) engineName() string {
	if c.engineFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.engineFlag)
}

// signalContext derives a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// recordRun appends the finished run to the history ledger. The ledger is
// advisory; failures are logged and swallowed.
func (c *commandContext) recordRun(kind string, started time.Time, outcome progress.Outcome, runErr error, files, pages int) {
	logger := c.ensureLogger()

	path, err := history.DefaultPath()
	if err != nil {
		logger.Warn("history ledger unavailable", logging.Error(err))
		return
	}
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history ledger unavailable", logging.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	detail := ""
	if runErr != nil {
		detail = runErr.Error()
	}
	run := history.Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Outcome:    outcome.String(),
		Detail:     detail,
		Files:      files,
		Pages:      pages,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Record(ctx, run); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
