// Package delivery defines the contract every inbound transport implements.
package delivery

import "context"

// Delivery is a transport that serves requests until its context is cancelled
// or the fx lifecycle stops it.
type Delivery interface {
	Serve(ctx context.Context) error
}
