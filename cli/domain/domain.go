// Package domain implements CLI commands operating on whole domains.
package domain

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/fulldev0023/sns-sdk/cli/flags"
	"github.com/fulldev0023/sns-sdk/cli/input"
	"github.com/fulldev0023/sns-sdk/cli/options"
	"github.com/fulldev0023/sns-sdk/cli/txctx"
	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/nameservice"
	"github.com/fulldev0023/sns-sdk/pkg/resolve"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/types"
	"github.com/urfave/cli"
)

// NewCommands returns domain-related commands.
func NewCommands() []cli.Command {
	txFlags := append(append([]cli.Flag{}, options.Keypair...), options.RPC...)
	registerFlags := append([]cli.Flag{
		cli.Uint64Flag{
			Name:  "space",
			Value: 1_000,
			Usage: "domain account data size in bytes",
		},
	}, txFlags...)
	return []cli.Command{
		{
			Name:      "resolve",
			Usage:     "resolve domains to their owner",
			ArgsUsage: "<domain> [<domain>...]",
			Action:    resolveDomains,
			Flags:     options.RPC,
		},
		{
			Name:      "lookup",
			Usage:     "print the registry state of domains",
			ArgsUsage: "<domain> [<domain>...]",
			Action:    lookupDomains,
			Flags:     options.RPC,
		},
		{
			Name:      "reverse-lookup",
			Usage:     "find the domain a name account key belongs to",
			ArgsUsage: "<key>",
			Action:    reverseLookup,
			Flags:     options.RPC,
		},
		{
			Name:      "domains",
			Usage:     "list all domains owned by the given wallets",
			ArgsUsage: "<owner> [<owner>...]",
			Action:    listDomains,
			Flags:     options.RPC,
		},
		{
			Name:      "register",
			Usage:     "register new domains",
			ArgsUsage: "<domain> [<domain>...]",
			Action:    registerDomains,
			Flags:     registerFlags,
		},
		{
			Name:      "transfer",
			Usage:     "transfer domains to a new owner",
			ArgsUsage: "<new-owner> <domain> [<domain>...]",
			Action:    transferDomains,
			Flags:     txFlags,
		},
		{
			Name:      "burn",
			Usage:     "delete domains, reclaiming rent",
			ArgsUsage: "<domain> [<domain>...]",
			Action:    burnDomains,
			Flags: append([]cli.Flag{flags.PubkeyFlag{
				Name:  "refund",
				Usage: "account receiving the reclaimed rent (defaults to the signer)",
			}}, txFlags...),
		},
	}
}

func resolveDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("domain is missing", 1)
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	r := resolve.New(c)
	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Domain\tOwner\n"))
	for _, domain := range args {
		owner, err := r.Owner(gctx, domain)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("resolving %q: %w", domain, err), 1)
		}
		_, _ = tw.Write([]byte(domain + "\t" + owner.String() + "\n"))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func lookupDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("domain is missing", 1)
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	r := resolve.New(c)
	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	for _, domain := range args {
		key, err := derivation.DomainKey(domain, false)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("deriving key for %q: %w", domain, err), 1)
		}
		header, data, err := r.NameRegistry(gctx, key)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("looking up %q: %w", domain, err), 1)
		}
		_, _ = tw.Write([]byte("Domain:\t" + domain + "\n"))
		_, _ = tw.Write([]byte("Key:\t" + key.String() + "\n"))
		_, _ = tw.Write([]byte("Parent:\t" + header.ParentName.String() + "\n"))
		_, _ = tw.Write([]byte("Owner:\t" + header.Owner.String() + "\n"))
		_, _ = tw.Write([]byte("Class:\t" + header.Class.String() + "\n"))
		_, _ = tw.Write([]byte(fmt.Sprintf("Data size:\t%d\n", len(data))))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func reverseLookup(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 1 {
		return cli.NewExitError("name account key is missing", 1)
	}
	key, err := types.PubkeyFromString(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid key: %w", err), 1)
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	domain, err := resolve.New(c).Reverse(gctx, key)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, domain)
	return nil
}

func listDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("owner is missing", 1)
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	r := resolve.New(c)
	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Owner\tDomain\tKey\n"))
	for _, arg := range args {
		owner, err := types.PubkeyFromString(arg)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid owner %q: %w", arg, err), 1)
		}
		keys, err := r.DomainsForOwner(gctx, owner)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		names, err := r.ReverseBatch(gctx, keys)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		for i, key := range keys {
			_, _ = tw.Write([]byte(arg + "\t" + names[i] + "\t" + key.String() + "\n"))
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func transferDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 2 {
		return cli.NewExitError("new owner and domain are missing", 1)
	}
	newOwner, err := types.PubkeyFromString(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid new owner: %w", err), 1)
	}
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

	instructions := make([]transaction.Instruction, 0, len(args)-1)
	for _, domain := range args[1:] {
		key, err := derivation.DomainKey(domain, false)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("deriving key for %q: %w", domain, err), 1)
		}
		instructions = append(instructions, nameservice.Transfer(key, newOwner, kp.Pubkey(), nil))
	}
	signature, err := txctx.SignAndSend(gctx, c, kp, instructions)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, signature)
	return nil
}

func burnDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("domain is missing", 1)
	}
	kp, exitErr := options.GetKeypair(ctx)
	if exitErr != nil {
		return exitErr
	}
	refund := kp.Pubkey()
	if refundFlag := ctx.Generic("refund").(*flags.Pubkey); refundFlag.IsSet {
		refund = refundFlag.Pubkey()
	}
	ok, err := input.Confirm(ctx.App.Writer,
		fmt.Sprintf("Deleting %d domain(s), the rent is refunded to %s. Continue?", len(args), refund))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !ok {
		return nil
	}
	c, exitErr := options.GetRPCClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	instructions := make([]transaction.Instruction, 0, len(args))
	for _, domain := range args {
		key, err := derivation.DomainKey(domain, false)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("deriving key for %q: %w", domain, err), 1)
		}
		instructions = append(instructions, nameservice.Delete(key, kp.Pubkey(), refund))
	}
	signature, err := txctx.SignAndSend(gctx, c, kp, instructions)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, signature)
	return nil
}
