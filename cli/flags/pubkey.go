// Package flags contains custom type flags for the CLI.
package flags

import (
	"flag"
	"fmt"
	"strings"

	"github.com/fulldev0023/sns-sdk/pkg/types"
	"github.com/urfave/cli"
)

// Pubkey is a wrapper for a types.Pubkey with flag.Value methods.
type Pubkey struct {
	IsSet bool
	Value types.Pubkey
}

// PubkeyFlag is a flag with type types.Pubkey.
type PubkeyFlag struct {
	Name   string
	Usage  string
	Value  Pubkey
	Hidden bool
}

var (
	_ flag.Value = (*Pubkey)(nil)
	_ cli.Flag   = PubkeyFlag{}
)

// String implements the fmt.Stringer interface.
func (p *Pubkey) String() string {
	return p.Value.String()
}

// Set implements the flag.Value interface.
func (p *Pubkey) Set(s string) error {
	key, err := types.PubkeyFromString(s)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid key: %w", err), 1)
	}
	p.IsSet = true
	p.Value = key
	return nil
}

// Pubkey returns the wrapped key.
func (p *Pubkey) Pubkey() types.Pubkey {
	if !p.IsSet {
		// It is a programmer error to call this method without
		// checking if the value was provided.
		panic("key was not set")
	}
	return p.Value
}

// String returns a readable representation of this value
// (for usage defaults).
func (f PubkeyFlag) String() string {
	var names []string
	eachName(f.Name, func(name string) {
		names = append(names, getNameHelp(name))
	})
	return strings.Join(names, ", ") + "\t" + f.Usage
}

func getNameHelp(name string) string {
	if len(name) == 1 {
		return fmt.Sprintf("-%s value", name)
	}
	return fmt.Sprintf("--%s value", name)
}

// GetName returns the name of the flag.
func (f PubkeyFlag) GetName() string {
	return f.Name
}

// Apply populates the flag given the flag set and environment.
// Ignores errors.
func (f PubkeyFlag) Apply(set *flag.FlagSet) {
	eachName(f.Name, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
}

func eachName(longName string, fn func(string)) {
	parts := strings.Split(longName, ",")
	for _, name := range parts {
		fn(strings.TrimSpace(name))
	}
}
