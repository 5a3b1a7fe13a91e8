package main

import (
	"encoding/json"
	"os"

	"github.com/Velocity-BPA/zksync-lib/operations"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type execOptions struct {
	resource       string
	operation      string
	params         string
	file           string
	continueOnFail bool
}

func newExecCommand(root *rootOptions) *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run one operation, or a batch of operations from a JSON file",
		Example: `  zksync exec --resource account --operation getBalance --params '{"address":"0x..."}'
  zksync exec --file batch.json --continue-on-fail`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := opts.items()
			if err != nil {
				return err
			}

			cfg, logger, err := root.load()
			if err != nil {
				return err
			}

			client, registry, err := connect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer registry.Close()

			results, execErr := operations.NewExecutor(client, logger).Execute(cmd.Context(), items, opts.continueOnFail)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(results); err != nil {
				return errors.Wrap(err, "failed to encode results")
			}
			return execErr
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.resource, "resource", "r", "", "resource, e.g. account")
	flags.StringVarP(&opts.operation, "operation", "o", "", "operation, e.g. getBalance")
	flags.StringVarP(&opts.params, "params", "p", "{}", "operation parameters as a JSON object")
	flags.StringVarP(&opts.file, "file", "f", "", "JSON file holding a list of {resource, operation, params}")
	flags.BoolVar(&opts.continueOnFail, "continue-on-fail", false, "record failures and keep going")
	return cmd
}

// items builds the batch from either --file or the single operation flags.
func (o *execOptions) items() ([]operations.Item, error) {
	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", o.file)
		}
		var items []operations.Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", o.file)
		}
		return items, nil
	}

	if o.resource == "" || o.operation == "" {
		return nil, errors.New("--resource and --operation are required without --file")
	}

	var params operations.Params
	if err := json.Unmarshal([]byte(o.params), &params); err != nil {
		return nil, errors.Wrap(err, "--params must be a JSON object")
	}

	return []operations.Item{{
		Resource:  operations.Resource(o.resource),
		Operation: operations.Operation(o.operation),
		Params:    params,
	}}, nil
}
