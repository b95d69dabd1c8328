package ctxutil

import (
	"context"

	"github.com/ericman314/pinewood-server/internal/domain"
)

type requestDataKey struct{}

// RequestData is the caller identity resolved by the auth guard.
type RequestData struct {
	TokenString string
	Claims      domain.Claims
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
