package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"voiceorder/internal/search"
	"voiceorder/internal/store"
	"voiceorder/internal/validate"
)

// env bundles the collaborators a command needs.
type env struct {
	Store     store.Store
	Validator *validate.Validator
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the configured store, runs migrations and builds the
// validator over the two search endpoints.
func initEnv(ctx context.Context) (*env, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	return &env{Store: st, Validator: newValidator()}, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newValidator() *validate.Validator {
	opts := search.ClientOptions{
		Timeout:    time.Duration(cfg.Search.TimeoutSecs) * time.Second,
		RatePerSec: cfg.Search.RatePerSec,
	}
	articlesPath := cfg.Search.ArticlesPath
	if articlesPath == "" {
		articlesPath = search.ArticlesPath
	}
	customersPath := cfg.Search.CustomersPath
	if customersPath == "" {
		customersPath = search.CustomersPath
	}
	return validate.New(
		search.NewClient(cfg.Search.BaseURL, articlesPath, opts),
		search.NewClient(cfg.Search.BaseURL, customersPath, opts),
	)
}
