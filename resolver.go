package docsession

import "context"

// IdentityResolver reports the authenticated identity behind the current call, if any.
type IdentityResolver interface {
	CurrentIdentityID(ctx context.Context) (string, bool)
}

// RequestResolver reports facts about the request being served, if any.
type RequestResolver interface {
	CurrentNetworkOrigin(ctx context.Context) (string, bool)
	CurrentClientAgent(ctx context.Context) (string, bool)
}

// IdentityFunc adapts a function to IdentityResolver.
type IdentityFunc func(ctx context.Context) (string, bool)

func (f IdentityFunc) CurrentIdentityID(ctx context.Context) (string, bool) {
	return f(ctx)
}

type identityKeyType struct{}
type requestKeyType struct{}

var (
	identityKey = identityKeyType{}
	requestKey  = requestKeyType{}
)

// WithIdentity attaches an authenticated user id to ctx for ContextIdentity.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey, userID)
}

// ContextIdentity resolves the user id set by WithIdentity.
type ContextIdentity struct{}

func (ContextIdentity) CurrentIdentityID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// RequestInfo is what the store records about the request that wrote a session.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// WithRequestInfo marks ctx as serving a request for ContextRequest.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey, info)
}

// ContextRequest resolves the request info set by WithRequestInfo.
type ContextRequest struct{}

func (ContextRequest) CurrentNetworkOrigin(ctx context.Context) (string, bool) {
	info, ok := ctx.Value(requestKey).(RequestInfo)
	if !ok {
		return "", false
	}
	return info.IP, true
}

func (ContextRequest) CurrentClientAgent(ctx context.Context) (string, bool) {
	info, ok := ctx.Value(requestKey).(RequestInfo)
	if !ok {
		return "", false
	}
	return info.UserAgent, true
}
