package domain

import (
	"fmt"

	"github.com/fulldev0023/sns-sdk/cli/options"
	"github.com/fulldev0023/sns-sdk/cli/txctx"
	"github.com/fulldev0023/sns-sdk/pkg/config"
	"github.com/fulldev0023/sns-sdk/pkg/register"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/urfave/cli"
)

func registerDomains(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("domain is missing", 1)
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

	space := ctx.Uint64("space")
	registrar := register.New(config.RegistrarEndpoint, options.DefaultTimeout)
	var instructions []transaction.Instruction
	for _, domain := range args {
		prepared, err := registrar.PrepareRegistration(gctx, kp.Pubkey(), domain, space)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("preparing registration of %q: %w", domain, err), 1)
		}
		instructions = append(instructions, prepared...)
	}
	signature, err := txctx.SignAndSend(gctx, c, kp, instructions)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, signature)
	return nil
}
