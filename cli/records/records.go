// Package records implements CLI commands reading and writing domain records.
package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldev0023/sns-sdk/cli/options"
	"github.com/fulldev0023/sns-sdk/cli/txctx"
	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/nameservice"
	"github.com/fulldev0023/sns-sdk/pkg/record"
	"github.com/fulldev0023/sns-sdk/pkg/resolve"
	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/state"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/types"
	"github.com/urfave/cli"
)

// NewCommands returns the 'record' command.
func NewCommands() []cli.Command {
	setFlags := append(append([]cli.Flag{}, options.Keypair...), options.RPC...)
	watchFlags := append([]cli.Flag{options.Debug}, options.RPC...)
	return []cli.Command{{
		Name:  "record",
		Usage: "manage domain records",
		Subcommands: []cli.Command{
			{
				Name:      "get",
				Usage:     "fetch and decode a record of a domain",
				ArgsUsage: "<domain> <record>",
				Action:    getRecord,
				Flags:     options.RPC,
			},
			{
				Name:      "set",
				Usage:     "write a record of a domain",
				ArgsUsage: "<domain> <record> <content>",
				Action:    setRecord,
				Flags:     setFlags,
			},
			{
				Name:      "watch",
				Usage:     "stream record changes as they happen",
				ArgsUsage: "<domain> <record>",
				Action:    watchRecord,
				Flags:     watchFlags,
			},
		},
	}}
}

func recordArgs(ctx *cli.Context, n int) (string, record.Type, error) {
	args := ctx.Args()
	if len(args) != n {
		return "", 0, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	t, err := record.TypeFromString(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], t, nil
}

func getRecord(ctx *cli.Context) error {
	domain, t, err := recordArgs(ctx, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	content, err := resolve.New(c).Record(gctx, domain, t)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, content)
	return nil
}

func setRecord(ctx *cli.Context) error {
	domain, t, err := recordArgs(ctx, 3)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	content := ctx.Args()[2]
	kp, exitErr := options.GetKeypair(ctx)
	if exitErr != nil {
		return exitErr
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	recordKey, err := derivation.RecordKey(domain, t.String())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	parent, err := derivation.DomainKey(domain, false)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var data []byte
	if t == record.SOL {
		dst, err := types.PubkeyFromString(content)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid destination: %w", err), 1)
		}
		data, err = record.SerializeSol(dst, recordKey, kp)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	} else {
		data, err = record.Serialize(content, t)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	instructions, err := setRecordInstructions(gctx, c, kp.Pubkey(), domain, t, recordKey, parent, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	signature, err := txctx.SignAndSend(gctx, c, kp, instructions)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, signature)
	return nil
}

// setRecordInstructions plans the account changes a record write needs.
// A missing account is created first, a present one with a different
// payload size is deleted and recreated, then the payload is written.
func setRecordInstructions(gctx context.Context, c *rpc.Client, owner types.Pubkey,
	domain string, t record.Type, recordKey, parent types.Pubkey, data []byte) ([]transaction.Instruction, error) {
	var instructions []transaction.Instruction

	acc, err := c.GetAccountInfo(gctx, recordKey)
	switch {
	case err == nil:
		if len(acc.Data) == state.NameRecordHeaderLen+len(data) {
			break
		}
		instructions = append(instructions, nameservice.Delete(recordKey, owner, owner))
		fallthrough
	case errors.Is(err, rpc.ErrAccountNotFound):
		lamports, err := c.GetMinimumBalanceForRentExemption(gctx, uint64(state.NameRecordHeaderLen+len(data)))
		if err != nil {
			return nil, fmt.Errorf("fetching rent exemption: %w", err)
		}
		instructions = append(instructions, nameservice.Create(nameservice.CreateParams{
			HashedName:  derivation.HashedName(derivation.RecordPrefix + t.String()),
			Lamports:    lamports,
			Space:       uint32(len(data)),
			NameAccount: recordKey,
			Payer:       owner,
			Owner:       owner,
			Parent:      &parent,
			ParentOwner: &owner,
		}))
	default:
		return nil, fmt.Errorf("fetching record account: %w", err)
	}
	instructions = append(instructions, nameservice.Update(recordKey, 0, data, owner, &parent))
	return instructions, nil
}

func watchRecord(ctx *cli.Context) error {
	domain, t, err := recordArgs(ctx, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	recordKey, err := derivation.RecordKey(domain, t.String())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ws, exitErr := options.GetWSClient(ctx, log)
	if exitErr != nil {
		return exitErr
	}
	defer ws.Close()

	gctx, cancel := options.GetTimeoutContext(ctx)
	sub, err := ws.AccountSubscribe(gctx, recordKey)
	cancel()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-sigCh:
			gctx, cancel := options.GetTimeoutContext(ctx)
			err := sub.Unsubscribe(gctx)
			cancel()
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		case event, ok := <-sub.C:
			if !ok {
				return cli.NewExitError(rpc.ErrWSConnectionClosed, 1)
			}
			printRecordEvent(ctx, t, recordKey, event)
		}
	}
}

func printRecordEvent(ctx *cli.Context, t record.Type, recordKey types.Pubkey, event *rpc.AccountNotification) {
	if event.Account == nil {
		fmt.Fprintf(ctx.App.Writer, "slot %d: record deleted\n", event.Slot)
		return
	}
	_, payload, err := state.SplitAccountData(event.Account.Data)
	if err != nil {
		fmt.Fprintf(ctx.App.Writer, "slot %d: bad account data: %s\n", event.Slot, err)
		return
	}
	content, err := record.Deserialize(payload, t, recordKey)
	if err != nil {
		fmt.Fprintf(ctx.App.Writer, "slot %d: bad record: %s\n", event.Slot, err)
		return
	}
	fmt.Fprintf(ctx.App.Writer, "slot %d: %s\n", event.Slot, content)
}
