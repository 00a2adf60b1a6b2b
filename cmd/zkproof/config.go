package zkproof

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mynextid/zk-sum/circuits/sum"
	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/host"
	"github.com/mynextid/zk-sum/prover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the CLI
const EnvPrefix = "ZKSUM"

// configuration keys
const (
	keyProver        = "prover"
	keyProverURL     = "prover-url"
	keyProverTimeout = "prover-timeout"
	keySetupSeed     = "setup-seed"
	keyInsecureSetup = "insecure-dev-setup"
	keyArtifactsDir  = "artifacts-dir"
	keyProofFile     = "proof-file"
	keyVkeyFile      = "vkey-file"
	keyLogLevel      = "log-level"
	keyLogFormat     = "log-format"
)

// NewViper returns the configuration store: flags first, then ZKSUM_* environment, then defaults
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyProver, prover.ModeLocal)
	v.SetDefault(keyProverTimeout, 10*time.Minute)
	return v
}

// LoadDotEnv loads path into the process environment when it exists.
// Variables already set are kept.
func LoadDotEnv(path string) error {
	if !common.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// AddPersistentFlags registers the flags shared by every mode and binds them to v
func AddPersistentFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(keyArtifactsDir, ".", "Directory holding the proof bundle and verifying key")
	flags.String(keyProofFile, host.DefaultProofFile, "Proof bundle file (relative to --artifacts-dir)")
	flags.String(keyVkeyFile, host.DefaultVerifyingKeyFile, "Verifying key file (relative to --artifacts-dir)")
	flags.String(keyLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "text", "Log format (text, json)")
	flags.Bool(keyInsecureSetup, false, "Allow the public development setup seed (proofs can be forged)")

	// only fails on a nil flag set
	_ = v.BindPFlags(flags)
}

func proverConfig(v *viper.Viper) prover.Config {
	return prover.Config{
		Mode:             v.GetString(keyProver),
		URL:              v.GetString(keyProverURL),
		SetupSeed:        v.GetString(keySetupSeed),
		Timeout:          v.GetDuration(keyProverTimeout),
		InsecureDevSetup: v.GetBool(keyInsecureSetup),
	}
}

func hostPaths(v *viper.Viper) host.Paths {
	return host.Paths{
		Dir:              v.GetString(keyArtifactsDir),
		ProofFile:        v.GetString(keyProofFile),
		VerifyingKeyFile: v.GetString(keyVkeyFile),
	}
}

func newLogger(cmd *cobra.Command, v *viper.Viper) common.Logger {
	return common.SetupLogger(v.GetString(keyLogLevel), v.GetString(keyLogFormat), cmd.ErrOrStderr())
}

// newHost builds the orchestrator of the sum program from the configuration
func newHost(cmd *cobra.Command, v *viper.Viper) (*host.Host, error) {
	logger := newLogger(cmd, v)

	backend, err := prover.NewFromConfig(proverConfig(v), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create prover: %w", err)
	}
	logger.Debug("prover ready", "mode", v.GetString(keyProver))

	return host.New(backend, sum.Program, hostPaths(v), cmd.OutOrStdout(), logger), nil
}
