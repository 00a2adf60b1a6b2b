package prover

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mynextid/zk-sum/common"
)

// Backend modes
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config selects and configures a backend. It is populated from the
// process environment (ZKSUM_PROVER, ZKSUM_PROVER_URL, ZKSUM_SETUP_SEED,
// ZKSUM_INSECURE_DEV_SETUP).
type Config struct {
	Mode      string
	URL       string
	SetupSeed string
	Timeout   time.Duration

	// InsecureDevSetup allows DevSetupSeed
	InsecureDevSetup bool
}

// NewFromConfig builds the backend selected by cfg
func NewFromConfig(cfg Config, logger common.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", ModeLocal:
		seed := cfg.SetupSeed
		if seed != "" || cfg.InsecureDevSetup {
			var err error
			if seed, err = ResolveSetupSeed(seed, cfg.InsecureDevSetup); err != nil {
				return nil, err
			}
		}
		return NewLocal(seed, logger), nil
	case ModeRemote:
		if cfg.URL == "" {
			return nil, fmt.Errorf("prover mode %q requires a prover url", ModeRemote)
		}
		return NewRemote(cfg.URL, &http.Client{Timeout: cfg.Timeout}, logger)
	default:
		return nil, fmt.Errorf("unknown prover mode %q (want %s or %s)", cfg.Mode, ModeLocal, ModeRemote)
	}
}
