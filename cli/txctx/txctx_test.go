package txctx

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/types"
	"github.com/fulldev0023/sns-sdk/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndSend(t *testing.T) {
	var blockhash types.Hash
	blockhash[0] = 7
	var wire []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		var result interface{}
		switch req.Method {
		case "getLatestBlockhash":
			result = map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value": map[string]interface{}{
					"blockhash":            blockhash.String(),
					"lastValidBlockHeight": uint64(10),
				},
			}
		case "sendTransaction":
			var err error
			wire, err = base64.StdEncoding.DecodeString(req.Params[0].(string))
			require.NoError(t, err)
			result = "sent"
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}
		raw, err := json.Marshal(result)
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(rpc.Response{
			JSONRPC: rpc.JSONRPCVersion,
			ID:      json.RawMessage("1"),
			Result:  raw,
		})
	}))
	t.Cleanup(srv.Close)

	c, err := rpc.New(srv.URL, rpc.Options{})
	require.NoError(t, err)
	kp, err := wallet.NewKeypair()
	require.NoError(t, err)

	ins := transaction.Instruction{
		ProgramID: types.Pubkey{3},
		Accounts:  []transaction.AccountMeta{{Pubkey: kp.Pubkey(), IsSigner: true, IsWritable: true}},
		Data:      []byte{1},
	}
	sig, err := SignAndSend(context.Background(), c, kp, []transaction.Instruction{ins})
	require.NoError(t, err)
	assert.Equal(t, "sent", sig)

	// One signature followed by the message the signature covers.
	require.NotEmpty(t, wire)
	require.Equal(t, byte(1), wire[0])
	require.Greater(t, len(wire), 65)
	assert.True(t, ed25519.Verify(kp.Pubkey().Bytes(), wire[65:], wire[1:65]))
}
