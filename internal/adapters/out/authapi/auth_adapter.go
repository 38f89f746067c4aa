package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

// AuthAdapter — HTTP-клиент внешнего Auth Service.
type AuthAdapter struct {
	client  *http.Client
	baseURL string
	logger  out.LoggerPort
}

func NewAuthAdapter(cfg *config.Config, logger out.LoggerPort) *AuthAdapter {
	return &AuthAdapter{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.AuthService.URL,
		logger:  logger,
	}
}

func (a *AuthAdapter) GetCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	url := fmt.Sprintf("%s/users/me", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("authapi.current_user.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Error("authapi.current_user.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		a.logger.Error("authapi.current_user.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &user, nil
}
