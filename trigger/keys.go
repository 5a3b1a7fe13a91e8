package trigger

import (
	"context"
	"fmt"
	"strings"

	"github.com/Velocity-BPA/zksync-lib/cursorstore"
	"github.com/pkg/errors"
)

const (
	keyLastBlock        = "lastBlock"
	keyLastL1Batch      = "lastL1Batch"
	keyLastCheckedBlock = "lastCheckedBlock"
	keyLastCheckedBatch = "lastCheckedBatch"
	keyLastBalance      = "lastBalance"
)

func txLatchKey(hash string) string {
	return "tx_" + strings.ToLower(hash)
}

func batchLatchKey(batch uint64) string {
	return fmt.Sprintf("batch_executed_%d", batch)
}

// stagedWrites buffers cursor writes so nothing reaches the store unless the
// whole scan succeeds.
type stagedWrites struct {
	store   cursorstore.Store
	order   []string
	pending map[string]interface{}
}

func newStagedWrites(store cursorstore.Store) *stagedWrites {
	return &stagedWrites{
		store:   store,
		pending: make(map[string]interface{}),
	}
}

// getUint64 reads a numeric cursor.
func (s *stagedWrites) getUint64(ctx context.Context, key string) (uint64, bool, error) {
	if v, ok := s.pending[key]; ok {
		if n, ok := v.(uint64); ok {
			return n, true, nil
		}
	}

	var value uint64
	found, err := s.store.Get(ctx, key, &value)
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to read cursor %s", key)
	}
	return value, found, nil
}

// getString reads a string cursor.
func (s *stagedWrites) getString(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.pending[key]; ok {
		if str, ok := v.(string); ok {
			return str, true, nil
		}
	}

	var value string
	found, err := s.store.Get(ctx, key, &value)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read cursor %s", key)
	}
	return value, found, nil
}

// latched reports whether a one-shot latch was set.
func (s *stagedWrites) latched(ctx context.Context, key string) (bool, error) {
	if _, ok := s.pending[key]; ok {
		return true, nil
	}

	var value bool
	found, err := s.store.Get(ctx, key, &value)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read latch %s", key)
	}
	return found && value, nil
}

func (s *stagedWrites) set(key string, value interface{}) {
	if _, ok := s.pending[key]; !ok {
		s.order = append(s.order, key)
	}
	s.pending[key] = value
}

func (s *stagedWrites) latch(key string) {
	s.set(key, true)
}

func (s *stagedWrites) empty() bool {
	return len(s.order) == 0
}

// commit writes the staged values in staging order.
func (s *stagedWrites) commit(ctx context.Context) error {
	for _, key := range s.order {
		if err := s.store.Set(ctx, key, s.pending[key]); err != nil {
			return errors.Wrapf(err, "failed to write cursor %s", key)
		}
	}
	return nil
}
