package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codesum/pkg/version"
)

// NewRootCmd builds the codesum command tree. Each call returns an
// independent tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "codesum <path>",
		Short: "Aggregates all the code within a path",
		Long: `codesum walks a directory tree, reads every text file that is not ignored
by .gitignore, .ignore or .codesumignore rules and prints their contents
concatenated into one document.`,
		Version:      version.Version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, args[0], loadSettings(v))
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./codesum.yaml or $HOME/.config/codesum/codesum.yaml)")
	registerFlags(root, v)
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
