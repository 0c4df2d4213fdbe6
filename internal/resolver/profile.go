package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// profileTimeout bounds the token validation round-trip. A timeout is
// reported as a distinct failure, never silently retried.
const profileTimeout = 5 * time.Second

// ValidateToken checks an access token against the provider profile
// endpoint and returns the account profile on success.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/user/profile", nil, accessToken)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Profile{}, fmt.Errorf("token validation timed out after %s", profileTimeout)
		}
		return Profile{}, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse profile response: %w", err)
	}

	return profile, nil
}
