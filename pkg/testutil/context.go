package testutil

import (
	"context"
	"time"

	id "tasquest/pkg/domain"
	"tasquest/pkg/requestcontext"
)

// FixedTime is the clock used by service tests that need deterministic timestamps.
var FixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// AuthedContext returns a context carrying an account id, a token id and FixedTime,
// the way the auth middleware would leave it.
func AuthedContext(accountID id.AccountID, jti string) context.Context {
	ctx := requestcontext.WithAccountID(context.Background(), accountID)
	ctx = requestcontext.WithToken(ctx, jti, FixedTime.Add(time.Hour))
	return requestcontext.WithTime(ctx, FixedTime)
}
