package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fulldev0023/sns-sdk/cli/domain"
	"github.com/fulldev0023/sns-sdk/cli/options"
	"github.com/fulldev0023/sns-sdk/cli/records"
	"github.com/fulldev0023/sns-sdk/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "sns\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates an sns instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "sns"
	ctl.Version = config.Version
	ctl.Usage = "Solana Name Service resolver and registry tool"
	ctl.ErrWriter = os.Stdout
	ctl.Flags = []cli.Flag{options.ConfigFile}

	ctl.Commands = append(ctl.Commands, domain.NewCommands()...)
	ctl.Commands = append(ctl.Commands, records.NewCommands()...)
	return ctl
}
