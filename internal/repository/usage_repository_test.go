package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"genius-server/internal/domain"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// stubSupabaseClient points both client flavors at a local PostgREST stub.
type stubSupabaseClient struct {
	url string
}

func (s *stubSupabaseClient) Initialize() error { return nil }

func (s *stubSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubSupabaseClient) Service() *supabase.Client { return nil }

func (s *stubSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return supabase.NewClient(s.url, "anon-key", &supabase.ClientOptions{})
}

func (s *stubSupabaseClient) GetRestClientWithToken(token string) (*postgrest.Client, error) {
	return postgrest.NewClient(s.url+"/rest/v1", "", map[string]string{
		"apikey":        "anon-key",
		"Authorization": "Bearer " + token,
	}), nil
}

func newUsageFixture(t *testing.T, handler http.HandlerFunc) *UsageRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewUsageRepository(&stubSupabaseClient{url: server.URL}, NewMockRepositoryLogger())
}

func TestUsageRepository_Increment_Success(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/rpc/increment_api_limit") {
			t.Fatalf("unexpected request path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("3"))
	})

	if err := repo.Increment(context.Background(), "user-1", "token"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestUsageRepository_Increment_MissingFunction(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"42883","message":"function public.increment_api_limit(p_user_id => text) does not exist","details":null,"hint":null}`))
	})

	err := repo.Increment(context.Background(), "user-1", "token")
	if err == nil {
		t.Fatalf("expected error when the rpc function is missing")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected error to carry the rejection message, got %v", err)
	}
}

func TestUsageRepository_Increment_PermissionDenied(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"42501","message":"permission denied for function increment_api_limit"}`))
	})

	if err := repo.Increment(context.Background(), "user-1", "token"); err == nil {
		t.Fatalf("expected error when the rpc is denied")
	}
}

func TestUsageRepository_Increment_UnexpectedBody(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if err := repo.Increment(context.Background(), "user-1", "token"); err == nil {
		t.Fatalf("expected error when the rpc returns no count")
	}
}

func TestUsageRepository_GetCount(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/user_api_limits") {
			t.Fatalf("unexpected request path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"count":2}]`))
	})

	count, err := repo.GetCount(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestUsageRepository_GetCount_NoRow(t *testing.T) {
	repo := newUsageFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	})

	count, err := repo.GetCount(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count 0 for absent row, got %d", count)
	}
}
