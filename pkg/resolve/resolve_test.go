package resolve

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/record"
	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/state"
	"github.com/fulldev0023/sns-sdk/pkg/types"
)

func newTestResolver(t *testing.T, handlers map[string]func(params []json.RawMessage) interface{}, calls *atomic.Int64) *Resolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if calls != nil {
			calls.Inc()
		}
		handler, ok := handlers[req.Method]
		require.True(t, ok, "unexpected method %s", req.Method)
		result, err := json.Marshal(handler(req.Params))
		require.NoError(t, err)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + string(result) + `}`))
	}))
	t.Cleanup(srv.Close)

	client, err := rpc.New(srv.URL, rpc.Options{})
	require.NoError(t, err)
	return New(client)
}

func accountValue(data []byte) map[string]interface{} {
	return map[string]interface{}{
		"lamports":   uint64(1),
		"owner":      derivation.NameProgramID.String(),
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"rentEpoch":  uint64(0),
	}
}

func registryData(owner types.Pubkey, payload []byte) []byte {
	h := state.NameRecordHeader{ParentName: derivation.RootDomainAccount, Owner: owner}
	return append(h.Bytes(), payload...)
}

func TestOwner(t *testing.T) {
	owner := types.Pubkey{5}
	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getAccountInfo": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": accountValue(registryData(owner, nil))}
		},
	}, nil)

	got, err := r.Owner(context.Background(), "bonfida.sol")
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestOwnerMissing(t *testing.T) {
	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getAccountInfo": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": nil}
		},
	}, nil)

	_, err := r.Owner(context.Background(), "missing.sol")
	require.ErrorIs(t, err, rpc.ErrAccountNotFound)
}

func TestRecord(t *testing.T) {
	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getAccountInfo": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": accountValue(registryData(types.Pubkey{}, []byte{127, 0, 0, 1}))}
		},
	}, nil)

	content, err := r.Record(context.Background(), "bonfida", record.A)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", content)
}

func TestReverseCaching(t *testing.T) {
	reversePayload := make([]byte, 4+7)
	binary.LittleEndian.PutUint32(reversePayload, 7)
	copy(reversePayload[4:], "bonfida")

	calls := atomic.NewInt64(0)
	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getAccountInfo": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": accountValue(registryData(types.Pubkey{}, reversePayload))}
		},
	}, calls)

	nameAccount := types.Pubkey{9}
	name, err := r.Reverse(context.Background(), nameAccount)
	require.NoError(t, err)
	assert.Equal(t, "bonfida", name)
	require.Equal(t, int64(1), calls.Load())

	// Second lookup is served from the cache.
	name, err = r.Reverse(context.Background(), nameAccount)
	require.NoError(t, err)
	assert.Equal(t, "bonfida", name)
	assert.Equal(t, int64(1), calls.Load())
}

func TestReverseBatch(t *testing.T) {
	first := make([]byte, 4+3)
	binary.LittleEndian.PutUint32(first, 3)
	copy(first[4:], "abc")

	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getMultipleAccounts": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": []interface{}{
				accountValue(registryData(types.Pubkey{}, first)),
				nil,
			}}
		},
	}, nil)

	names, err := r.ReverseBatch(context.Background(), []types.Pubkey{{1}, {2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", ""}, names)
}

func TestDomainsForOwner(t *testing.T) {
	domainKey := types.Pubkey{3}
	r := newTestResolver(t, map[string]func([]json.RawMessage) interface{}{
		"getProgramAccounts": func(params []json.RawMessage) interface{} {
			var program string
			require.NoError(t, json.Unmarshal(params[0], &program))
			assert.Equal(t, derivation.NameProgramID.String(), program)
			return []interface{}{map[string]interface{}{
				"pubkey":  domainKey.String(),
				"account": accountValue(registryData(types.Pubkey{4}, nil)),
			}}
		},
	}, nil)

	keys, err := r.DomainsForOwner(context.Background(), types.Pubkey{4})
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{domainKey}, keys)
}

func TestParseReverse(t *testing.T) {
	_, err := parseReverse([]byte{1, 0})
	require.ErrorIs(t, err, ErrBadReverse)

	tooLong := make([]byte, 4)
	binary.LittleEndian.PutUint32(tooLong, 100)
	_, err = parseReverse(tooLong)
	require.ErrorIs(t, err, ErrBadReverse)
}
