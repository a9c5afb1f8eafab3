package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"genius-server/internal/domain"
)

// UsageRepository persists the free-tier generation counter in the
// user_api_limits table.
type UsageRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewUsageRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *UsageRepository {
	return &UsageRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetCount returns the consumed free-tier count for the user. No row means
// the user has not generated anything yet, so the count is 0.
func (r *UsageRepository) GetCount(ctx context.Context, userID string, token string) (int, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return 0, fmt.Errorf("failed to get client: %w", err)
	}

	resp, _, err := client.From("user_api_limits").
		Select("count", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to get usage count: %w", err)
	}

	var rows []struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// Increment bumps the user's counter by one, creating the row with count=1
// when absent. The increment_api_limit SQL function performs the upsert and
// `count = count + 1` in a single statement, so concurrent increments for
// the same user cannot lose an update.
func (r *UsageRepository) Increment(ctx context.Context, userID string, token string) error {
	client, err := r.supabaseClient.GetRestClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	params := map[string]interface{}{
		"p_user_id": userID,
	}

	// Rpc returns the raw response body even on HTTP error statuses, so a
	// PostgREST rejection (missing function, RLS denial) comes back as a
	// JSON error object. The function returns the new count; anything that
	// is not a number is a failed call.
	resp := client.Rpc("increment_api_limit", "", params)
	if client.ClientError != nil {
		return fmt.Errorf("increment_api_limit rpc failed: %w", client.ClientError)
	}

	var count int
	if err := json.Unmarshal([]byte(resp), &count); err != nil {
		var pgErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(resp), &pgErr) == nil && pgErr.Message != "" {
			return fmt.Errorf("increment_api_limit rpc rejected: %s (code %s)", pgErr.Message, pgErr.Code)
		}
		return fmt.Errorf("increment_api_limit rpc returned unexpected response: %q", resp)
	}
	return nil
}
