//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=auth_test
package auth

import "courier-dispatch/pkg/logger"

type TokenParser interface {
	Parse(token string) (Principal, error)
}

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
}
