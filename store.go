package docsession

import (
	"github.com/minus-twelve/docsession/types"
)

// Record is one stored session.
type Record = types.Record

// Collection is the backing handle a Handler reads and writes records through.
type Collection = types.Collection

// Backend opens collections on a store.
type Backend = types.Backend

// Config configures the store and the handler.
type Config = types.Config

func hasNativeTTL(c Collection) bool {
	n, ok := c.(types.NativeTTL)
	return ok && n.NativeTTL()
}
