package publish

import (
	"fmt"
	"strings"

	_ "go.beyondstorage.io/services/minio"
	_ "go.beyondstorage.io/services/s3/v3"

	"go.beyondstorage.io/v5/services"
	"go.beyondstorage.io/v5/types"
)

// NewStorager opens a storage service from a connection string such as
// "s3://bucket/releases?credential=hmac:key:secret&location=us-east-1".
func NewStorager(connStr string) (types.Storager, error) {
	return services.NewStoragerFromString(connStr)
}

// OpenTargets opens one target per connection string.
func OpenTargets(connStrs []string) ([]Target, error) {
	targets := make([]Target, 0, len(connStrs))
	for _, connStr := range connStrs {
		store, err := NewStorager(connStr)
		if err != nil {
			return nil, fmt.Errorf("error opening storage %s: %w", targetName(connStr), err)
		}

		targets = append(targets, Target{
			Name:  targetName(connStr),
			Store: store,
		})
	}

	return targets, nil
}

// targetName drops the query so credentials never reach logs.
func targetName(connStr string) string {
	if i := strings.IndexByte(connStr, '?'); i >= 0 {
		return connStr[:i]
	}
	return connStr
}
