package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/warriorguo/topoflow/metrics"
	"github.com/warriorguo/topoflow/store"
	"github.com/warriorguo/topoflow/types"
	"github.com/warriorguo/topoflow/utils"
)

const (
	CheckpointPath = "/checkpoint/"
	RecordPath     = "/record/"
)

/**
 * executorBase carries what the three executors share: the optional
 * checkpoint/record store and the per-call bookkeeping. An executor
 * instance is reusable across calls; each Execute call owns its own
 * stateTable, context and concurrency budget. Two concurrent calls must
 * not share the same topology instance.
 */
type executorBase struct {
	store store.Store
}

type execSession struct {
	executorBase

	executionID string
	topologyID  string
	kind        types.TopologyKind

	opts   *types.ExecOptions
	ctx    context.Context
	cancel context.CancelFunc

	states  *stateTable
	initial types.Data
	exec    types.NodeExecutor

	startTime time.Time
}

func (b executorBase) newSession(kind types.TopologyKind, topologyID string, nodeIDs []string,
	exec types.NodeExecutor, initial types.Data, opts *types.ExecOptions) (*execSession, error) {
	if exec == nil {
		return nil, errors.BadRequestf("node executor is nil")
	}

	s := &execSession{
		executorBase: b,
		executionID:  uuid.NewString(),
		topologyID:   topologyID,
		kind:         kind,
		opts:         opts,
		states:       newStateTable(nodeIDs),
		initial:      initial,
		exec:         exec,
		startTime:    time.Now(),
	}
	if s.initial == nil {
		s.initial = types.Data{}
	}

	if cp := opts.FromCheckpoint; cp != nil {
		if !cp.Matches(topologyID, kind) {
			return nil, errors.Trace(types.NewCheckpointErrorf(
				"checkpoint for %s/%s does not match topology %s/%s",
				cp.Kind, cp.TopologyID, kind, topologyID))
		}
		s.states.applyCheckpoint(cp)
	}

	baseCtx := opts.Ctx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if opts.Timeout > 0 {
		s.ctx, s.cancel = context.WithTimeout(baseCtx, opts.Timeout)
	} else {
		s.ctx, s.cancel = context.WithCancel(baseCtx)
	}

	metrics.ExecutionsStarted.WithLabelValues(string(kind)).Inc()
	log.Debugf("%s execution %s of %s started (%d nodes)", kind, s.executionID, topologyID, len(nodeIDs))
	return s, nil
}

// paused reports whether the caller asked to stop at the next boundary.
func (s *execSession) paused() bool {
	if s.opts.PauseSignal == nil {
		return false
	}
	select {
	case <-s.opts.PauseSignal:
		return true
	default:
		return false
	}
}

func (s *execSession) deadlineExpired() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

/**
 * runNode drives one attempt: transition to running, invoke the injected
 * executor under the per-node deadline, recover panics, classify timeout
 * errors, settle the state and persist the trace record. The returned
 * error is the node-level error; it never propagates past the executor
 * loop that called us.
 */
func (s *execSession) runNode(node *types.EnhancedNode, visible []string) error {
	if err := s.states.transition(node.ID, types.StatusRunning); err != nil {
		return errors.Trace(err)
	}

	nodeCtx := s.ctx
	cancel := context.CancelFunc(func() {})
	if s.opts.NodeTimeout > 0 {
		nodeCtx, cancel = context.WithTimeout(s.ctx, s.opts.NodeTimeout)
	}
	defer cancel()

	ec := newExecContext(nodeCtx, s.executionID, s.states, visible)
	input := ec.mergedInput(s.initial, visible)

	attempt := s.states.attemptsOf(node.ID)
	start := time.Now()
	output, err := s.invoke(ec, node, input)
	elapsed := time.Since(start)
	metrics.NodeDuration.Observe(float64(elapsed.Milliseconds()))

	if err != nil && nodeCtx.Err() == context.DeadlineExceeded {
		err = types.NewTimeoutError(node.ID, err)
	}

	s.states.settle(node.ID, output, err)
	s.saveRecord(node.ID, attempt, start, input, output, err)
	if err != nil {
		metrics.NodesSettled.WithLabelValues(string(s.kind), types.StatusFailed.String()).Inc()
		log.Debugf("%s node %s failed after %v: %v", s.executionID, node.ID, elapsed, err)
	} else {
		metrics.NodesSettled.WithLabelValues(string(s.kind), types.StatusCompleted.String()).Inc()
		log.Debugf("%s node %s completed in %v", s.executionID, node.ID, elapsed)
	}
	return err
}

func (s *execSession) invoke(ec *execContext, node *types.EnhancedNode, input types.Data) (output types.Data, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = types.NewNodeExecutionError(node.ID, fmt.Errorf("panic on %s: %v", node.ID, r))
		}
	}()
	output, retErr = s.exec(ec, node, input)
	if retErr != nil {
		retErr = types.NewNodeExecutionError(node.ID, retErr)
	}
	return output, retErr
}

func (s *execSession) skip(nodeID string, reason types.SkipReason) {
	if s.states.markSkipped(nodeID, reason) {
		metrics.NodesSettled.WithLabelValues(string(s.kind), types.StatusSkipped.String()).Inc()
	}
}

func (s *execSession) reportProgress(total int) {
	if s.opts.Progress != nil {
		s.opts.Progress(s.states.settledCount(), total)
	}
}

func (s *execSession) checkpoint() *types.Checkpoint {
	cp := s.states.exportCheckpoint(s.topologyID, s.kind)
	if s.store != nil {
		b, err := utils.Serialize(cp)
		if err == nil {
			err = s.store.Set(s.ctx, CheckpointPath, s.topologyID, b)
		}
		if err != nil {
			log.Errorf("%s failed to save checkpoint for %s: %v", s.executionID, s.topologyID, err)
		} else {
			metrics.CheckpointsSaved.Inc()
		}
	}
	return cp
}

// checkpointIfEnabled snapshots state at a node boundary when the caller
// opted in.
func (s *execSession) checkpointIfEnabled() {
	if s.opts.EnableCheckpoint {
		s.checkpoint()
	}
}

func (s *execSession) saveRecord(nodeID string, attempt int, start time.Time, input, output types.Data, runErr error) {
	if s.store == nil {
		return
	}
	record := &types.NodeRunRecord{
		NodeID:    nodeID,
		Attempt:   attempt,
		StartTime: start,
		EndTime:   time.Now(),
		Input:     input,
		Output:    output,
	}
	if runErr != nil {
		record.Error = errors.ErrorStack(runErr)
	}
	b, err := utils.Serialize(record)
	if err == nil {
		key := fmt.Sprintf("%s.%d", nodeID, attempt)
		err = s.store.Set(s.ctx, RecordPath+s.executionID, key, b)
	}
	if err != nil {
		log.Errorf("%s failed to save record for %s: %v", s.executionID, nodeID, err)
	}
}

func (s *execSession) finish(paused bool) *types.ExecutionResult {
	defer s.cancel()

	result := &types.ExecutionResult{
		ExecutionID: s.executionID,
		TopologyID:  s.topologyID,
		Kind:        s.kind,
		StartTime:   s.startTime,
		EndTime:     time.Now(),
	}
	s.states.exportResult(result)

	switch {
	case paused:
		result.Status = types.ExecPaused
		result.Checkpoint = s.checkpoint()
	case result.Failed == 0 && result.Skipped == 0:
		result.Status = types.ExecCompleted
		result.Success = true
	case result.Completed > 0:
		result.Status = types.ExecPartial
	default:
		result.Status = types.ExecFailed
	}

	if !paused && s.opts.EnableCheckpoint {
		result.Checkpoint = s.checkpoint()
	}

	metrics.ExecutionsFinished.WithLabelValues(string(s.kind), string(result.Status)).Inc()
	log.Debugf("%s execution finished: %s (%d completed, %d failed, %d skipped)",
		s.executionID, result.Status, result.Completed, result.Failed, result.Skipped)
	return result
}

/**
 * LoadCheckpoint reads the last persisted checkpoint for a topology.
 * Malformed bytes surface as a CheckpointError; a missing checkpoint is
 * NotFound.
 */
func LoadCheckpoint(ctx context.Context, s store.Store, topologyID string) (*types.Checkpoint, error) {
	if s == nil {
		return nil, errors.BadRequestf("no store configured")
	}
	b, err := s.Get(ctx, CheckpointPath, topologyID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("checkpoint for %s", topologyID)
	}
	cp := &types.Checkpoint{}
	if err := utils.Unserialize(b, cp); err != nil {
		return nil, errors.Trace(types.NewCheckpointError(err))
	}
	return cp, nil
}

// LoadRecords returns every per-attempt trace of an execution, keyed by
// "<nodeID>.<attempt>".
func LoadRecords(ctx context.Context, s store.Store, executionID string) (map[string]*types.NodeRunRecord, error) {
	if s == nil {
		return nil, errors.BadRequestf("no store configured")
	}
	records := make(map[string]*types.NodeRunRecord)
	recordPath := RecordPath + executionID
	err := s.List(ctx, recordPath, func(key string) bool {
		b, err := s.Get(ctx, recordPath, key)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, key, err)
			return true
		}
		record := &types.NodeRunRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s failed: %v", recordPath, key, err)
			return true
		}
		records[key] = record
		return true
	})
	return records, errors.Trace(err)
}
