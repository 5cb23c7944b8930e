package booking

import "context"

type idempotencyKeyCtx struct{}

// NewContextWithIdempotencyKey marks a booking request so that retries with
// the same key return the booking created by the first attempt.
func NewContextWithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// IdempotencyKeyFromContext reports the key set on ctx. An empty key counts
// as absent.
func IdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(idempotencyKeyCtx{}).(string)

	return key, ok && key != ""
}
