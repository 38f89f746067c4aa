package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

// BookingAdapter — HTTP-клиент внешнего Booking Service.
type BookingAdapter struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  out.LoggerPort
}

func NewBookingAdapter(cfg *config.Config, logger out.LoggerPort) *BookingAdapter {
	return &BookingAdapter{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.BookingService.URL,
		apiKey:  cfg.BookingService.APIKey,
		logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *BookingAdapter) authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
}

// statusError разворачивает тело ошибки апстрима; сообщение отдается как есть.
func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

func (a *BookingAdapter) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	url := fmt.Sprintf("%s/profiles/%s", a.baseURL, nurl.PathEscape(profileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	a.authorize(req, "")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("bookingapi.profile.fetch_failed", out.LogFields{
			"profileId": profileID,
			"error":     err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("bookingapi.profile.fetch_failed", out.LogFields{
			"profileId": profileID,
			"status":    resp.StatusCode,
		})
		return nil, statusError(resp)
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		a.logger.Error("bookingapi.profile.decode_failed", out.LogFields{
			"profileId": profileID,
			"error":     err.Error(),
		})
		return nil, err
	}

	return &profile, nil
}

func (a *BookingAdapter) GetAvailableTimes(ctx context.Context, profileID string, date domain.CivilDate) (*domain.DayBookingSnapshot, error) {
	url := fmt.Sprintf("%s/profiles/%s/available-times", a.baseURL, nurl.PathEscape(profileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("date", date.String())
	req.URL.RawQuery = query.Encode()

	a.authorize(req, "")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("bookingapi.available_times.fetch_failed", out.LogFields{
			"profileId": profileID,
			"date":      date.String(),
			"error":     err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var snapshot domain.DayBookingSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		a.logger.Error("bookingapi.available_times.decode_failed", out.LogFields{
			"profileId": profileID,
			"date":      date.String(),
			"error":     err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("bookingapi.available_times.fetch_success", out.LogFields{
		"profileId":   profileID,
		"date":        date.String(),
		"bookedCount": len(snapshot.BookedTimes),
	})

	return &snapshot, nil
}

func (a *BookingAdapter) GetMyBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	url := fmt.Sprintf("%s/bookings/my", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	a.authorize(req, token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("bookingapi.my_bookings.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var bookings []domain.Booking
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		a.logger.Error("bookingapi.my_bookings.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return bookings, nil
}

func (a *BookingAdapter) CreateBooking(ctx context.Context, token string, createReq domain.CreateBookingRequest) (*domain.Booking, error) {
	payload, err := json.Marshal(createReq)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/bookings", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	a.authorize(req, token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("bookingapi.create.failed", out.LogFields{
			"profileId": createReq.ProfileID,
			"error":     err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		a.logger.Error("bookingapi.create.failed", out.LogFields{
			"profileId": createReq.ProfileID,
			"status":    resp.StatusCode,
		})
		return nil, statusError(resp)
	}

	var booking domain.Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		a.logger.Error("bookingapi.create.decode_failed", out.LogFields{
			"profileId": createReq.ProfileID,
			"error":     err.Error(),
		})
		return nil, err
	}

	a.logger.Info("bookingapi.create.success", out.LogFields{
		"bookingId": booking.ID,
		"profileId": booking.ProfileID,
	})

	return &booking, nil
}
