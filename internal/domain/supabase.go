package domain

import (
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseClient wraps access to Supabase Auth and PostgREST.
//
// Service returns a client authenticated with the service-role key for
// writes that happen outside a user session (webhook processing).
// GetClientWithToken returns a client scoped to the user's access token so
// row-level security applies to user-facing reads and writes.
// GetRestClientWithToken returns the underlying PostgREST client for the
// same token; the high-level client does not expose RPC error state, so
// callers that need it go through this.
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)

	Service() *supabase.Client
	GetClientWithToken(token string) (*supabase.Client, error)
	GetRestClientWithToken(token string) (*postgrest.Client, error)
}
