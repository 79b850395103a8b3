package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubemeta/internal/mediaid"
)

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "resolve <url>",
		Short:       "Print the media identifier for a URL",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := mediaid.DefaultRegistry().ResolveString(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
