package assistant

import (
	"context"
)

// Service answers free-text questions about the workforce with keyword
// matching over the tracking projections. No external NLP involved.
type Service interface {
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
}
