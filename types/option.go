package types

import (
	"context"
	"time"

	"github.com/mcuadros/go-defaults"
)

func NewExecOptions() *ExecOptions {
	opts := &ExecOptions{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type ExecOptions struct {
	Ctx context.Context
	/**
	 * default: 4
	 * upper bound of concurrently running nodes for this call. Graph
	 * execution additionally caps at Graph.Config.MaxParallelNodes.
	 */
	MaxParallel int `default:"4"`
	/**
	 * default: true
	 * when false, the first unrecovered chain-node failure halts the
	 * chain and the result covers only the nodes executed so far.
	 */
	ContinueOnError bool `default:"true"`
	/**
	 * default: false
	 * when true a checkpoint is produced after every node transition
	 * and attached to the result (and persisted when a store is set).
	 */
	EnableCheckpoint bool `default:"false"`

	// FromCheckpoint resumes a prior run: nodes checkpointed as
	// completed are not re-executed.
	FromCheckpoint *Checkpoint

	// Timeout bounds the whole call; zero means no deadline.
	Timeout time.Duration
	// NodeTimeout bounds each node attempt; zero means no bound.
	NodeTimeout time.Duration

	// RetryBackoff is slept between chain retry attempts.
	RetryBackoff time.Duration

	Progress ProgressFunc

	/**
	 * PauseSignal, when closed, stops the run at the next node boundary.
	 * The result carries the checkpoint needed to resume.
	 */
	PauseSignal <-chan struct{}
}

type ExecOption func(*ExecOptions)

func WithContext(ctx context.Context) ExecOption {
	return func(opts *ExecOptions) {
		opts.Ctx = ctx
	}
}

func WithMaxParallel(n int) ExecOption {
	return func(opts *ExecOptions) {
		opts.MaxParallel = n
	}
}

func DisableContinueOnError() ExecOption {
	return func(opts *ExecOptions) {
		opts.ContinueOnError = false
	}
}

func EnableCheckpoint() ExecOption {
	return func(opts *ExecOptions) {
		opts.EnableCheckpoint = true
	}
}

func WithCheckpoint(cp *Checkpoint) ExecOption {
	return func(opts *ExecOptions) {
		opts.FromCheckpoint = cp
		opts.EnableCheckpoint = true
	}
}

func WithTimeout(d time.Duration) ExecOption {
	return func(opts *ExecOptions) {
		opts.Timeout = d
	}
}

func WithNodeTimeout(d time.Duration) ExecOption {
	return func(opts *ExecOptions) {
		opts.NodeTimeout = d
	}
}

func WithRetryBackoff(d time.Duration) ExecOption {
	return func(opts *ExecOptions) {
		opts.RetryBackoff = d
	}
}

func WithProgress(fn ProgressFunc) ExecOption {
	return func(opts *ExecOptions) {
		opts.Progress = fn
	}
}

func WithPauseSignal(ch <-chan struct{}) ExecOption {
	return func(opts *ExecOptions) {
		opts.PauseSignal = ch
	}
}
