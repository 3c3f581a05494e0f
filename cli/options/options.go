/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"time"

	"github.com/fulldev0023/sns-sdk/pkg/config"
	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTimeout is the default timeout used for RPC requests.
const DefaultTimeout = 10 * time.Second

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// KeypairFlag is a long flag name for a signing keypair file.
const KeypairFlag = "keypair"

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:  RPCEndpointFlag + ", r",
		Usage: "RPC node address",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Value: DefaultTimeout,
		Usage: "Timeout for the operation",
	},
}

// Keypair is a set of flags used for transaction signing.
var Keypair = []cli.Flag{
	cli.StringFlag{
		Name:  KeypairFlag + ", k",
		Usage: "path to the JSON keypair file used for signing",
	},
}

// ConfigFile is a flag providing a path to the configuration file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file",
}

// Debug is a flag enabling debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

var errNoKeypair = errors.New("no keypair specified, use option '--" + KeypairFlag + "' or '-k'")

// GetConfigFromContext loads the configuration file if one is given and
// applies flag overrides on top of it.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile := ctx.GlobalString("config-file"); len(configFile) != 0 {
		cfg, err = config.Load(configFile)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = config.Default()
	}
	if endpoint := ctx.String(RPCEndpointFlag); len(endpoint) != 0 {
		cfg.RPCEndpoint = endpoint
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = config.Duration(ctx.Duration("timeout"))
	}
	return cfg, nil
}

// GetTimeoutContext returns a context.Context with the default or a user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetRPCClient returns an RPC client instance for the given Context.
func GetRPCClient(ctx *cli.Context) (*rpc.Client, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	c, err := rpc.New(cfg.RPCEndpoint, rpc.Options{
		RequestTimeout: cfg.Timeout.Std(),
		Commitment:     rpc.Commitment(cfg.Commitment),
	})
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return c, nil
}

// GetWSClient returns a WebSocket client for the given Context. The endpoint
// is derived from the RPC one unless set explicitly in the configuration.
func GetWSClient(ctx *cli.Context, log *zap.Logger) (*rpc.WSClient, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	ws, err := rpc.NewWS(cfg.ResolveWSEndpoint(), log, rpc.Options{
		RequestTimeout: cfg.Timeout.Std(),
		Commitment:     rpc.Commitment(cfg.Commitment),
	})
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return ws, nil
}

// GetKeypair reads the signing keypair named by the keypair flag.
func GetKeypair(ctx *cli.Context) (*wallet.Keypair, cli.ExitCoder) {
	path := ctx.String(KeypairFlag)
	if len(path) == 0 {
		return nil, cli.NewExitError(errNoKeypair, 1)
	}
	kp, err := wallet.Load(path)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return kp, nil
}

// HandleLoggingParams reads logging parameters and returns a logger. If the
// user selected debug level, the function enables it.
func HandleLoggingParams(debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}

	return cc.Build()
}
