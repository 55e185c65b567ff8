package docsession

import (
	"context"
	"time"

	"github.com/minus-twelve/docsession/types"
)

// PayloadBuilder assembles the record stored by a write. A nil resolver means the
// corresponding fields are never set.
type PayloadBuilder struct {
	lifetime time.Duration
	clock    types.Clock
	identity IdentityResolver
	request  RequestResolver
}

func NewPayloadBuilder(lifetime time.Duration, clock types.Clock, identity IdentityResolver, request RequestResolver) *PayloadBuilder {
	if clock == nil {
		clock = types.SystemClock
	}
	return &PayloadBuilder{
		lifetime: lifetime,
		clock:    clock,
		identity: identity,
		request:  request,
	}
}

func (b *PayloadBuilder) Build(ctx context.Context, id string, data []byte) types.Record {
	now := b.clock.Now()
	rec := types.Record{
		ID:           id,
		Payload:      data,
		LastActivity: now,
		Expire:       now.Add(b.lifetime),
	}

	if b.identity != nil {
		if userID, ok := b.identity.CurrentIdentityID(ctx); ok {
			rec.UserID = &userID
		}
	}

	if b.request != nil {
		if ip, ok := b.request.CurrentNetworkOrigin(ctx); ok {
			agent, _ := b.request.CurrentClientAgent(ctx)
			agent = truncate(agent, types.MaxUserAgentLength)
			rec.IPAddress = &ip
			rec.UserAgent = &agent
		}
	}

	return rec
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
