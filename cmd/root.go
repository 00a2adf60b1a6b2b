package main

import (
	"github.com/mynextid/zk-sum/cmd/zkproof"
	"github.com/spf13/cobra"
)

// Init the cmd
func newRootCmd() *cobra.Command {
	v := zkproof.NewViper()

	rootCmd := &cobra.Command{
		Use:           "zksum",
		Short:         "Zero-knowledge sum of two private integers",
		Long:          `Executes, proves and verifies a guest that commits the wrapping sum of two private u32 values, and exports its verifying key`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return zkproof.LoadDotEnv(".env")
		},
	}

	zkproof.AddPersistentFlags(rootCmd, v)

	rootCmd.AddCommand(
		zkproof.NewExecuteCmd(v),
		zkproof.NewProveCmd(v),
		zkproof.NewVerifyCmd(v),
		zkproof.NewVkeyCmd(v),
		zkproof.NewServeCmd(v),
		NewVersionCmd(),
	)

	return rootCmd
}
