package client

import "github.com/miyatoshi624/gote/client/internal/types"

// Public type aliases so callers can import only the client package.
type (
	Category = types.Category
	Memo     = types.Memo
)
