package zkproof

import (
	"time"

	"github.com/mynextid/zk-sum/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewServeCmd(v *viper.Viper) *cobra.Command {
	cfg := &server.ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the prover API server",
		Long:  `Start the HTTP prover used by the remote prover mode. Programs are set up at start-up; proofs are generated on request.`,
		Example: `  # Start server on default port
  zksum serve

  # Start with custom settings
  ZKSUM_SETUP_SEED=$(cat /run/secrets/setup-seed) zksum serve --host 0.0.0.0 --port 9090

  # Development only: public setup seed
  zksum serve --insecure-dev-setup

  # Production deployment with TLS
  zksum serve --host 0.0.0.0 --port 443 --enable-tls \
    --cert-file /etc/ssl/cert.pem --key-file /etc/ssl/key.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.SetupSeed == "" {
				cfg.SetupSeed = v.GetString(keySetupSeed)
			}
			cfg.InsecureDevSetup = v.GetBool(keyInsecureSetup)
			cfg.LogLevel = v.GetString(keyLogLevel)
			cfg.LogFormat = v.GetString(keyLogFormat)
			return server.Run(cfg)
		},
	}

	// Server flags
	cmd.Flags().StringVar(&cfg.Host, "host", "localhost", "Host to bind to")
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", 8080, "Port to listen on")

	// Program flags
	cmd.Flags().StringSliceVarP(&cfg.Programs, "programs", "c", []string{}, "Specific programs to load (comma-separated, empty = all)")
	cmd.Flags().StringVar(&cfg.SetupSeed, "setup-seed", "", "Secret setup seed (defaults to ZKSUM_SETUP_SEED)")

	// Performance flags
	cmd.Flags().Int64Var(&cfg.MaxRequestSize, "max-request-size", 10*1024*1024, "Maximum request body size in bytes")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", 15*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", 120*time.Second, "HTTP write timeout (proof generation can be slow)")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	// Security flags
	cmd.Flags().BoolVar(&cfg.EnableCORS, "enable-cors", true, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&cfg.CorsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	// Observability flags
	cmd.Flags().BoolVar(&cfg.EnablePprof, "enable-pprof", false, "Enable pprof endpoints (debug only)")

	// TLS flags
	cmd.Flags().BoolVar(&cfg.EnableTLS, "enable-tls", false, "Enable TLS/HTTPS")
	cmd.Flags().StringVar(&cfg.CertFile, "cert-file", "", "TLS certificate file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key-file", "", "TLS private key file")

	return cmd
}
