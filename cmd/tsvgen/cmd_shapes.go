package main

import (
	"fmt"

	"github.com/SimonDaKappa/go-tsv/internal/gen"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type shapesOutput struct {
	Package string          `json:"package"`
	Types   []*gen.TypeDecl `json:"types"`
}

func newShapesCmd() *cobra.Command {
	var flags optsFlags

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "Print the shapes tsvgen derives for the given types as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			decls, pkg, err := gen.Describe(opts)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(shapesOutput{Package: pkg, Types: decls}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	flags.register(cmd)

	return cmd
}
