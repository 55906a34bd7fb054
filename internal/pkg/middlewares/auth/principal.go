package auth

import "context"

type Role string

const (
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

// Principal кто делает запрос. Для админа CourierID не используется.
type Principal struct {
	CourierID int64
	Role      Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// CourierID id курьера из токена запроса, false - запрос без курьерского токена.
func CourierID(ctx context.Context) (int64, bool) {
	p, ok := FromContext(ctx)
	if !ok || p.Role != RoleCourier {
		return 0, false
	}
	return p.CourierID, true
}
