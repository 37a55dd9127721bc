package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/logger"
)

// AccountResolver looks up a registered account by id and hands back the
// account plus a live agent for it. Returns agent.ErrNotFound when the
// id is unknown.
type AccountResolver interface {
	Resolve(ctx context.Context, accountId string) (agent.Account, agent.Agent, error)
}

type resolvedAccountKey struct{}

// ResolvedAccount holds the account and agent resolved from the URL.
type ResolvedAccount struct {
	Account agent.Account
	Agent   agent.Agent
}

// ErrorResponder handles resolver errors by writing HTTP responses.
type ErrorResponder func(w http.ResponseWriter, err error, lookup string)

// ResolveAccount creates middleware that resolves the {accountId} URL
// parameter before handlers run. The resolved account and agent are
// stored in context and the logger is enriched with the account id.
// Requests without an {accountId} parameter pass through untouched.
func ResolveAccount(resolver AccountResolver, errResponder ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			accountId := chi.URLParam(r, "accountId")
			if accountId == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, ag, err := resolver.Resolve(ctx, accountId)
			if err != nil {
				errResponder(w, err, accountId)
				return
			}

			ctx = context.WithValue(ctx, resolvedAccountKey{}, ResolvedAccount{
				Account: account,
				Agent:   ag,
			})

			log := logger.FromContext(ctx).With(
				"account_id", account.Id,
				"provider", account.Provider,
			)
			ctx = logger.AddToContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetResolvedAccount retrieves the resolved account from context.
// Returns nil when no account was resolved for this request.
func GetResolvedAccount(ctx context.Context) *ResolvedAccount {
	if resolved, ok := ctx.Value(resolvedAccountKey{}).(ResolvedAccount); ok {
		return &resolved
	}
	return nil
}

// WithResolvedAccount returns a context with the given account set as
// resolved. Test helper.
func WithResolvedAccount(ctx context.Context, account agent.Account, ag agent.Agent) context.Context {
	return context.WithValue(ctx, resolvedAccountKey{}, ResolvedAccount{Account: account, Agent: ag})
}
