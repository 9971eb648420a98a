// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"themekit/config"
	"themekit/settings"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by apply subcommand
	Overwrite bool

	store         *settings.Store
	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Store opens settings database on first use.
func (e *LocalEnv) Store() (*settings.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	if e.Cfg == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	s, err := settings.Open(e.Cfg.Store.Path, e.Log)
	if err != nil {
		return nil, err
	}
	e.store = s
	return s, nil
}

// CloseStore releases settings database if it was opened.
func (e *LocalEnv) CloseStore() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
