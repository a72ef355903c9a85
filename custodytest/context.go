package custodytest

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/log"
)

// Context returns a context carrying a logger that writes to stdout only
// when tests run in verbose mode.
func Context() context.Context {
	return custody.WithLogger(context.Background(), log.TestingLogger())
}
