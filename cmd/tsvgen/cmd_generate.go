package main

import (
	"github.com/SimonDaKappa/go-tsv/internal/gen"
	"github.com/spf13/cobra"
)

// optsFlags are the flags shared by the commands that analyze a package.
type optsFlags struct {
	config string
	opts   gen.Opts
}

func (o *optsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.config, "config", "", "YAML file with dir, types and output")
	cmd.Flags().StringVarP(&o.opts.Dir, "dir", "d", "", "package directory (default \".\")")
	cmd.Flags().StringSliceVarP(&o.opts.Types, "types", "t", nil, "comma separated type names")
}

// resolve loads the config file, if any, with the flags taking precedence.
func (o *optsFlags) resolve() (gen.Opts, error) {
	if o.config == "" {
		return o.opts, nil
	}
	base, err := gen.LoadConfig(o.config)
	if err != nil {
		return gen.Opts{}, err
	}
	return base.Merge(o.opts), nil
}

func newGenerateCmd() *cobra.Command {
	var flags optsFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write ReadTSV methods for the given types",
		Long: `Write ReadTSV methods for the given types and the types they use.

Structs read their exported fields in declaration order. Interfaces
carrying a //tsv:variants directive become enums read by their variant tag.

Intended for go:generate:

	//go:generate go run github.com/SimonDaKappa/go-tsv/cmd/tsvgen generate -t Header,Object`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			return gen.Run(opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.opts.Output, "output", "o", "", "output file, relative to the package directory (default \""+gen.DefaultOutput+"\")")

	return cmd
}
