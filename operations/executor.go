package operations

import (
	"context"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Item is one requested operation.
type Item struct {
	Resource  Resource  `json:"resource" yaml:"resource"`
	Operation Operation `json:"operation" yaml:"operation"`
	Params    Params    `json:"params" yaml:"params"`
}

// Executor runs items against a Backend.
type Executor struct {
	backend Backend
	logger  *logrus.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(backend Backend, logger *logrus.Logger) *Executor {
	return &Executor{
		backend: backend,
		logger:  logger,
	}
}

// Run executes a single item.
func (e *Executor) Run(ctx context.Context, item Item) (Result, error) {
	key := Key{Resource: item.Resource, Operation: item.Operation}
	handler, ok := Lookup(key)
	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrUnknownOperation, "%s", key)
	}

	params := item.Params
	if params == nil {
		params = Params{}
	}
	return handler(ctx, e.backend, params)
}

// Execute runs items in order and returns one result per item.
//
// Parameters:
// - ctx: the context for managing the requests.
// - items: the operations to run.
// - continueOnFail: when true a failing item yields {"error": msg, "item": i} and the batch goes on.
//
// Returns:
// - []Result: the results, in item order.
// - error: the first failure when continueOnFail is false; results gathered so far are returned with it.
func (e *Executor) Execute(ctx context.Context, items []Item, continueOnFail bool) ([]Result, error) {
	results := make([]Result, 0, len(items))

	for i, item := range items {
		result, err := e.Run(ctx, item)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"item":      i,
				"resource":  item.Resource,
				"operation": item.Operation,
				"error":     err,
			}).Warn("Operation failed")

			if !continueOnFail {
				return results, errors.Wrapf(err, "item %d", i)
			}
			results = append(results, Result{"error": err.Error(), "item": i})
			continue
		}

		e.logger.WithFields(logrus.Fields{
			"item":      i,
			"resource":  item.Resource,
			"operation": item.Operation,
		}).Debug("Operation succeeded")
		results = append(results, result)
	}

	return results, nil
}
