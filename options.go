package custody

import (
	"context"
	"encoding/json"

	"github.com/iov-one/custody/errors"
)

// Options are the genesis options.
// Each component can look up its key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "option %q: %s", key, err)
	}
	return nil
}

// ParseOptions decodes a genesis document into Options.
func ParseOptions(raw []byte) (Options, error) {
	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return opts, nil
}

// Initializer implementations are used to initialize
// components from genesis file contents
type Initializer interface {
	FromGenesis(ctx context.Context, opts Options) error
}

// ChainInitializers lets you initialize many components at once.
// They run in the given order and the first failure stops the chain.
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

var _ Initializer = chainInitializer(nil)

// FromGenesis passes the options to every initializer in turn.
func (c chainInitializer) FromGenesis(ctx context.Context, opts Options) error {
	for _, i := range c {
		if err := i.FromGenesis(ctx, opts); err != nil {
			return err
		}
	}
	return nil
}
