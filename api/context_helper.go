package api

import (
	"context"
	"time"
)

// QueryTimeout bounds the single-record reads behind the GET endpoints
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) < QueryTimeout {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, QueryTimeout)
}
