package zkproof

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type inputConfig struct {
	a uint32
	b uint32
}

func addInputFlags(cmd *cobra.Command, in *inputConfig) {
	cmd.Flags().Uint32VarP(&in.a, "a", "a", 0, "First private input")
	cmd.Flags().Uint32VarP(&in.b, "b", "b", 0, "Second private input")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
}

func NewExecuteCmd(v *viper.Viper) *cobra.Command {
	in := &inputConfig{}

	cmd := &cobra.Command{
		Use:     "execute",
		Short:   "Execute the guest without generating a proof",
		Long:    `Run the guest on two private inputs and print the public commitment and the cycle count. Nothing is written to disk.`,
		Example: `  zksum execute --a 7 --b 35`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(cmd, v)
			if err != nil {
				return err
			}
			_, err = h.Execute(cmd.Context(), in.a, in.b)
			return err
		},
	}
	addInputFlags(cmd, in)

	return cmd
}

func NewProveCmd(v *viper.Viper) *cobra.Command {
	in := &inputConfig{}

	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Generate a proof and its verifying key",
		Long:  `Set up the guest, prove a run on two private inputs and write the proof bundle and the full verifying key.`,
		Example: `  zksum prove --a 7 --b 35

  # Prove on a remote prover
  ZKSUM_PROVER=remote ZKSUM_PROVER_URL=http://localhost:8080 zksum prove --a 7 --b 35`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(cmd, v)
			if err != nil {
				return err
			}
			_, err = h.Prove(cmd.Context(), in.a, in.b)
			return err
		},
	}
	addInputFlags(cmd, in)

	return cmd
}

func NewVerifyCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the proof bundle against the full verifying key",
		Long:  `Load the proof bundle and the full verifying key written by prove and verify the proof.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(cmd, v)
			if err != nil {
				return err
			}
			_, err = h.Verify(cmd.Context())
			return err
		},
	}
}

func NewVkeyCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "vkey",
		Short: "Export the compact verifying key digest",
		Long:  `Set up the guest and write only the 32-byte digest of its verifying key. The digest cannot be used by verify.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(cmd, v)
			if err != nil {
				return err
			}
			_, err = h.Vkey(cmd.Context())
			return err
		},
	}
}
