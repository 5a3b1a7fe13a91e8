package main

import (
	"fmt"

	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/spf13/cobra"
)

func newConvertCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert an amount between ether denominations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromUnit, err := units.ParseDenomination(from)
			if err != nil {
				return err
			}
			toUnit, err := units.ParseDenomination(to)
			if err != nil {
				return err
			}

			result, err := units.Convert(args[0], fromUnit, toUnit)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", string(units.Ether), "source denomination")
	cmd.Flags().StringVar(&to, "to", string(units.Wei), "target denomination")
	return cmd
}
