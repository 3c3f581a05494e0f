/*
Package rpc implements a JSON-RPC client for Solana nodes covering the
subset of methods the name service SDK needs: account reads, program
account scans, blockhash retrieval, rent queries and transaction
submission. A WebSocket variant adds account change subscriptions.
*/
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/atomic"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
)

// ErrAccountNotFound is returned when the queried account does not
// exist at the requested commitment level.
var ErrAccountNotFound = errors.New("account not found")

// Client executes JSON RPC calls against a remote Solana node. It is
// thread-safe and can be used from multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	opts     Options

	latestReqID *atomic.Uint64

	requestF func(ctx context.Context, r *Request) (*Response, error)
}

// Options defines options for the RPC client. All values are optional.
// If any duration is not specified, a default of 4 seconds will be
// used.
type Options struct {
	DialTimeout     time.Duration
	RequestTimeout  time.Duration
	MaxConnsPerHost int
	// Commitment applies to every state query made through the client.
	// Empty means the node default (finalized).
	Commitment Commitment
}

// New returns a new Client ready to use.
func New(endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	cl := &Client{
		cli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: opts.DialTimeout,
				}).DialContext,
				MaxConnsPerHost: opts.MaxConnsPerHost,
			},
			Timeout: opts.RequestTimeout,
		},
		endpoint:    u,
		opts:        opts,
		latestReqID: atomic.NewUint64(0),
	}
	cl.requestF = cl.makeHTTPRequest
	return cl, nil
}

// Commitment returns the commitment level the client queries at.
func (c *Client) Commitment() Commitment {
	if c.opts.Commitment == "" {
		return CommitmentFinalized
	}
	return c.opts.Commitment
}

func (c *Client) makeHTTPRequest(ctx context.Context, r *Request) (*Response, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote responded with %s", resp.Status)
	}
	raw := new(Response)
	if err := json.NewDecoder(resp.Body).Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return raw, nil
}

// performRequest does a single call with the given method and
// positional parameters, decoding the result into result (unless nil).
func (c *Client) performRequest(ctx context.Context, method string, params []interface{}, result interface{}) error {
	r := &Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.latestReqID.Inc(),
	}
	resp, err := c.requestF(ctx, r)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%s: %w", method, resp.Error)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("%s: decoding result: %w", method, err)
	}
	return nil
}

// contextValue wraps "withContext" style results carrying the slot the
// value was evaluated at.
type contextValue struct {
	Value json.RawMessage `json:"value"`
}

func (c *Client) stateConfig() map[string]interface{} {
	return map[string]interface{}{
		"encoding":   "base64",
		"commitment": string(c.Commitment()),
	}
}

// GetAccountInfo fetches the account at key. ErrAccountNotFound is
// returned when the account does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, key types.Pubkey) (*Account, error) {
	var wrapped contextValue
	err := c.performRequest(ctx, "getAccountInfo", []interface{}{key.String(), c.stateConfig()}, &wrapped)
	if err != nil {
		return nil, err
	}
	if len(wrapped.Value) == 0 || string(wrapped.Value) == "null" {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	acc := new(Account)
	if err := json.Unmarshal(wrapped.Value, acc); err != nil {
		return nil, fmt.Errorf("getAccountInfo: decoding account: %w", err)
	}
	return acc, nil
}

// GetMultipleAccounts fetches up to 100 accounts in one call. Missing
// accounts are returned as nil entries at their position.
func (c *Client) GetMultipleAccounts(ctx context.Context, keys []types.Pubkey) ([]*Account, error) {
	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = k.String()
	}
	var wrapped struct {
		Value []*Account `json:"value"`
	}
	err := c.performRequest(ctx, "getMultipleAccounts", []interface{}{encoded, c.stateConfig()}, &wrapped)
	if err != nil {
		return nil, err
	}
	if len(wrapped.Value) != len(keys) {
		return nil, fmt.Errorf("getMultipleAccounts: got %d accounts for %d keys", len(wrapped.Value), len(keys))
	}
	return wrapped.Value, nil
}

// GetProgramAccounts scans every account owned by program matching the
// given filters.
func (c *Client) GetProgramAccounts(ctx context.Context, program types.Pubkey, filters []Filter) ([]KeyedAccount, error) {
	config := c.stateConfig()
	if len(filters) > 0 {
		config["filters"] = filters
	}
	var result []KeyedAccount
	err := c.performRequest(ctx, "getProgramAccounts", []interface{}{program.String(), config}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLatestBlockhash returns a recent blockhash usable for transaction
// construction.
func (c *Client) GetLatestBlockhash(ctx context.Context) (*Blockhash, error) {
	var wrapped struct {
		Value *Blockhash `json:"value"`
	}
	params := []interface{}{map[string]interface{}{"commitment": string(c.Commitment())}}
	if err := c.performRequest(ctx, "getLatestBlockhash", params, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Value == nil {
		return nil, errors.New("getLatestBlockhash: empty result")
	}
	return wrapped.Value, nil
}

// GetMinimumBalanceForRentExemption returns the lamports an account of
// the given data size must hold to be rent exempt.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	var lamports uint64
	err := c.performRequest(ctx, "getMinimumBalanceForRentExemption", []interface{}{dataLen}, &lamports)
	return lamports, err
}

// SendRawTransaction submits a serialized signed transaction and
// returns its signature.
func (c *Client) SendRawTransaction(ctx context.Context, wire []byte) (string, error) {
	config := map[string]interface{}{
		"encoding":            "base64",
		"preflightCommitment": string(c.Commitment()),
	}
	var signature string
	err := c.performRequest(ctx, "sendTransaction",
		[]interface{}{base64.StdEncoding.EncodeToString(wire), config}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}
