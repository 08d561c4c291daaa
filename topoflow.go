/**
 * Package topoflow schedules and executes processing nodes organized as a
 * chain, a DAG or a tree. Callers materialize a topology plus a node map,
 * inject a node-executor callback, and receive an aggregate result with
 * optional checkpoints for pause/resume. The actual per-node work —
 * typically an AI content-generation call — stays behind the callback.
 */
package topoflow

import (
	"github.com/juju/errors"

	"github.com/warriorguo/topoflow/runtime"
	"github.com/warriorguo/topoflow/store"
	"github.com/warriorguo/topoflow/store/mem"
	"github.com/warriorguo/topoflow/store/postgres"
)

// EngineOptions selects where checkpoints and run records are persisted.
// With neither backend configured, checkpoints are only returned
// in-memory on the execution result.
type EngineOptions struct {
	MemStore bool
	// PostgresConfig takes precedence over MemStore when both are set.
	PostgresConfig *postgres.Config
}

type EngineOption func(*EngineOptions)

func EnableMemStore() EngineOption {
	return func(opts *EngineOptions) {
		opts.MemStore = true
	}
}

func WithPostgresConfig(config *postgres.Config) EngineOption {
	return func(opts *EngineOptions) {
		opts.PostgresConfig = config
	}
}

func buildStore(opts *EngineOptions) (store.Store, error) {
	switch {
	case opts.PostgresConfig != nil:
		s, err := postgres.NewPostgresStore(opts.PostgresConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
		return s, nil
	case opts.MemStore:
		return mem.NewMemStore(), nil
	}
	return nil, nil
}

func NewChainExecutor(options ...EngineOption) (*runtime.ChainExecutor, error) {
	opts := &EngineOptions{}
	for _, opt := range options {
		opt(opts)
	}
	s, err := buildStore(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return runtime.NewChainExecutor(s), nil
}

func NewGraphExecutor(options ...EngineOption) (*runtime.GraphExecutor, error) {
	opts := &EngineOptions{}
	for _, opt := range options {
		opt(opts)
	}
	s, err := buildStore(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return runtime.NewGraphExecutor(s), nil
}

func NewTreeExecutor(options ...EngineOption) (*runtime.TreeExecutor, error) {
	opts := &EngineOptions{}
	for _, opt := range options {
		opt(opts)
	}
	s, err := buildStore(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return runtime.NewTreeExecutor(s), nil
}
