/*
Package txctx contains helpers for creating and sending transactions,
shared by the CLI commands that mutate on-chain state.
*/
package txctx

import (
	"context"
	"fmt"

	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/wallet"
)

// SignAndSend assembles the given instructions into a transaction paid and
// signed by kp, then submits it. It returns the node-assigned transaction
// signature.
func SignAndSend(ctx context.Context, c *rpc.Client, kp *wallet.Keypair, instructions []transaction.Instruction) (string, error) {
	blockhash, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching blockhash: %w", err)
	}
	tx := transaction.New(transaction.NewMessage(kp.Pubkey(), instructions, blockhash.Blockhash))
	if err := tx.Sign(kp); err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}
	return c.SendRawTransaction(ctx, tx.Serialize())
}
