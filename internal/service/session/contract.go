//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=session_test
package session

import (
	"context"
	"time"

	"courier-dispatch/internal/entities"
)

type Repository interface {
	GetByCourierID(ctx context.Context, courierID int64) (*entities.CourierSession, error)
	UpsertCode(ctx context.Context, courierID int64, codeHash string, at time.Time) (*entities.CourierSession, error)
	ChangeState(ctx context.Context, change entities.SessionStateChange) (*entities.CourierSession, error)
	FilterActive(ctx context.Context, courierIDs []int64) ([]int64, error)
	List(ctx context.Context) ([]entities.CourierSession, error)
}

type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) (bool, error)
}

type CodeGenerator interface {
	Generate() (string, error)
}

type OfferRetractor interface {
	RetractCourier(ctx context.Context, courierID int64)
}
