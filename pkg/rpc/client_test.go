package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// newTestClient spins up a server answering every request with the
// given handler keyed by method name.
func newTestClient(t *testing.T, handlers map[string]func(req *Request) interface{}) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler, ok := handlers[req.Method]
		require.True(t, ok, "unexpected method %s", req.Method)

		result, err := json.Marshal(handler(&req))
		require.NoError(t, err)
		resp := Response{JSONRPC: JSONRPCVersion, ID: json.RawMessage("1"), Result: result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, Options{Commitment: CommitmentConfirmed})
	require.NoError(t, err)
	return c
}

func accountResponse(owner types.Pubkey, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 100},
		"value": map[string]interface{}{
			"lamports":   uint64(2_039_280),
			"owner":      owner.String(),
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"rentEpoch":  uint64(361),
		},
	}
}

func TestGetAccountInfo(t *testing.T) {
	owner := types.MustPubkey("namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX")
	payload := []byte("account payload")

	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"getAccountInfo": func(req *Request) interface{} {
			require.Len(t, req.Params, 2)
			config := req.Params[1].(map[string]interface{})
			assert.Equal(t, "base64", config["encoding"])
			assert.Equal(t, "confirmed", config["commitment"])
			return accountResponse(owner, payload)
		},
	})

	acc, err := c.GetAccountInfo(context.Background(), types.Pubkey{1})
	require.NoError(t, err)
	assert.Equal(t, owner, acc.Owner)
	assert.Equal(t, payload, acc.Data)
	assert.Equal(t, uint64(2_039_280), acc.Lamports)
}

func TestGetAccountInfoMissing(t *testing.T) {
	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"getAccountInfo": func(req *Request) interface{} {
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 100},
				"value":   nil,
			}
		},
	})
	_, err := c.GetAccountInfo(context.Background(), types.Pubkey{1})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetMultipleAccounts(t *testing.T) {
	owner := types.Pubkey{9}
	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"getMultipleAccounts": func(req *Request) interface{} {
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 100},
				"value": []interface{}{
					accountResponse(owner, []byte("a"))["value"],
					nil,
				},
			}
		},
	})

	accounts, err := c.GetMultipleAccounts(context.Background(), []types.Pubkey{{1}, {2}})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.NotNil(t, accounts[0])
	assert.Equal(t, []byte("a"), accounts[0].Data)
	assert.Nil(t, accounts[1])
}

func TestGetProgramAccounts(t *testing.T) {
	program := types.Pubkey{7}
	key := types.Pubkey{8}
	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"getProgramAccounts": func(req *Request) interface{} {
			config := req.Params[1].(map[string]interface{})
			require.Contains(t, config, "filters")
			return []interface{}{
				map[string]interface{}{
					"pubkey":  key.String(),
					"account": accountResponse(program, []byte("x"))["value"],
				},
			}
		},
	})

	accounts, err := c.GetProgramAccounts(context.Background(), program,
		[]Filter{MemcmpFilter(32, key.Bytes())})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, key, accounts[0].Pubkey)
	assert.Equal(t, []byte("x"), accounts[0].Account.Data)
}

func TestGetLatestBlockhash(t *testing.T) {
	var blockhash types.Hash
	blockhash[0] = 42
	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"getLatestBlockhash": func(req *Request) interface{} {
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 100},
				"value": map[string]interface{}{
					"blockhash":            blockhash.String(),
					"lastValidBlockHeight": uint64(3090),
				},
			}
		},
	})

	bh, err := c.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, blockhash, bh.Blockhash)
	assert.Equal(t, uint64(3090), bh.LastValidBlockHeight)
}

func TestSendRawTransaction(t *testing.T) {
	wire := []byte{1, 2, 3, 4}
	c := newTestClient(t, map[string]func(req *Request) interface{}{
		"sendTransaction": func(req *Request) interface{} {
			encoded := req.Params[0].(string)
			raw, err := base64.StdEncoding.DecodeString(encoded)
			require.NoError(t, err)
			assert.Equal(t, wire, raw)
			return "signature-placeholder"
		},
	})

	sig, err := c.SendRawTransaction(context.Background(), wire)
	require.NoError(t, err)
	assert.Equal(t, "signature-placeholder", sig)
}

func TestRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := Response{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage("1"),
			Error:   &Error{Code: -32601, Message: "method not found"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Options{})
	require.NoError(t, err)
	_, err = c.GetAccountInfo(context.Background(), types.Pubkey{})
	require.Error(t, err)
	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(-32601), rpcErr.Code)
}
