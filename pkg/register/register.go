/*
Package register talks to the public domain registration API. The API
prepares the instruction list a buyer must sign and submit to register
a .sol domain; this package fetches and decodes it into SDK
instructions.
*/
package register

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// domainRE is the character set registrable domains are limited to.
var domainRE = regexp.MustCompile(`^[a-z\d\-_]+$`)

// ErrInvalidDomainName is returned for names outside the registrable
// character set.
var ErrInvalidDomainName = errors.New("invalid domain name")

// Client fetches prepared registration transactions from the
// registration API.
type Client struct {
	endpoint string
	cli      *http.Client
}

// New creates a Client for the given API endpoint.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		cli:      &http.Client{Timeout: timeout},
	}
}

type apiKey struct {
	Pubkey     types.Pubkey `json:"pubkey"`
	IsWritable bool         `json:"isWritable"`
	IsSigner   bool         `json:"isSigner"`
}

type apiInstruction struct {
	ProgramID types.Pubkey `json:"programId"`
	Data      string       `json:"data"`
	Keys      []apiKey     `json:"keys"`
}

type apiResponse struct {
	S      string           `json:"s"`
	Result []apiInstruction `json:"result"`
}

// PrepareRegistration asks the API for the instructions registering
// domain for buyer with the given account space.
func (c *Client) PrepareRegistration(ctx context.Context, buyer types.Pubkey, domain string, space uint64) ([]transaction.Instruction, error) {
	if !domainRE.MatchString(domain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomainName, domain)
	}

	query := url.Values{}
	query.Set("buyer", buyer.String())
	query.Set("domain", domain)
	query.Set("space", strconv.FormatUint(space, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"/register?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registration API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registration API responded with %s", resp.Status)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding registration response: %w", err)
	}
	instructions := make([]transaction.Instruction, 0, len(decoded.Result))
	for _, ins := range decoded.Result {
		data, err := base64.URLEncoding.DecodeString(ins.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding instruction data: %w", err)
		}
		accounts := make([]transaction.AccountMeta, 0, len(ins.Keys))
		for _, key := range ins.Keys {
			accounts = append(accounts, transaction.AccountMeta{
				Pubkey:     key.Pubkey,
				IsSigner:   key.IsSigner,
				IsWritable: key.IsWritable,
			})
		}
		instructions = append(instructions, transaction.Instruction{
			ProgramID: ins.ProgramID,
			Accounts:  accounts,
			Data:      data,
		})
	}
	return instructions, nil
}
