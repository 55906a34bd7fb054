//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=local_test
package local

import "context"

type ActiveLister interface {
	ListActive(ctx context.Context) ([]int64, error)
}
