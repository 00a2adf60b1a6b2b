package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/models"
	"github.com/mynextid/zk-sum/zkvm"
)

// Remote delegates execution, setup and proving to a prover service.
// Verification always runs locally.
type Remote struct {
	baseURL  string
	client   *http.Client
	verifier *Local
	logger   common.Logger
}

// NewRemote creates a client of the prover service at baseURL
func NewRemote(baseURL string, client *http.Client, logger common.Logger) (*Remote, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid prover url %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Remote{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		verifier: NewLocal("", logger),
		logger:   logger,
	}, nil
}

func (r *Remote) Execute(ctx context.Context, p *zkvm.Program, stdin *zkvm.Stdin) (*zkvm.PublicValues, *ExecutionReport, error) {
	in, err := stdin.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	var resp models.ExecuteResponse
	if err := r.do(ctx, http.MethodPost, "/execute/"+p.Name, models.ExecuteRequest{Stdin: in}, &resp); err != nil {
		return nil, nil, err
	}

	return zkvm.NewPublicValues(resp.PublicValues), &ExecutionReport{
		Cycles:  resp.Cycles,
		Reads:   resp.Reads,
		Commits: resp.Commits,
	}, nil
}

func (r *Remote) Setup(ctx context.Context, p *zkvm.Program) (*ProvingKey, *VerifyingKey, error) {
	var resp models.SetupResponse
	if err := r.do(ctx, http.MethodGet, "/setup/"+p.Name, nil, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Program != p.ID() {
		return nil, nil, fmt.Errorf("%w: prover serves %s, want %s", ErrBackend, resp.Program, p.ID())
	}

	vk, err := DecodeVerifyingKey(p, resp.VerifyingKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return &ProvingKey{Program: p, VerifyingKey: vk}, vk, nil
}

func (r *Remote) Prove(ctx context.Context, pk *ProvingKey, stdin *zkvm.Stdin) (*ProofBundle, error) {
	in, err := stdin.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var resp models.ProveResponse
	if err := r.do(ctx, http.MethodPost, "/prove/"+pk.Program.Name, models.ProveRequest{Stdin: in}, &resp); err != nil {
		return nil, err
	}

	bundle, err := DecodeProofBundle(resp.Bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return bundle, nil
}

func (r *Remote) Verify(ctx context.Context, bundle *ProofBundle, vk *VerifyingKey) error {
	return r.verifier.Verify(ctx, bundle, vk)
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r.logger.Debug("prover request", "method", method, "url", req.URL.String())
	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: prover request failed: %w", ErrBackend, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read prover response: %w", ErrBackend, err)
	}

	if res.StatusCode != http.StatusOK {
		var e models.ErrorResponse
		if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
			return fmt.Errorf("%w: prover returned %s", ErrBackend, res.Status)
		}
		if e.Code == models.CodeGuestFault {
			return fmt.Errorf("%w: %s", zkvm.ErrGuestFault, e.Error)
		}
		return fmt.Errorf("%w: prover returned %s: %s", ErrBackend, res.Status, e.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode prover response: %w", ErrBackend, err)
	}
	return nil
}
