package extsched

//go:generate go run go.uber.org/mock/mockgen -source=./extsched.go -destination=./mocks/extsched_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"courtbook/config"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

// Checker reports time ranges held by an external scheduling system so the
// booking path can treat them as occupied.
type Checker interface {
	BusyRanges(ctx context.Context, courtID string, date time.Time) ([]timeslot.Range, error)
}

type busyRangeDTO struct {
	TimeFrom string `json:"time_from"`
	TimeTo   string `json:"time_to"`
}

type busyResponseDTO struct {
	Data []busyRangeDTO `json:"data"`
}

type checkerImpl struct {
	client  *http.Client
	baseURL string
	config  *config.Config
}

// New returns nil when the external integration is disabled so callers can
// skip the check with a plain nil comparison.
func New(config *config.Config) Checker {
	if !config.External.Scheduling.Enable {
		log.Info().Msg("External scheduling checker disabled")

		return nil
	}

	log.Info().Str("baseURL", config.External.Scheduling.BaseURL).Msg("External scheduling checker initialized")

	return &checkerImpl{
		client: &http.Client{
			Timeout: time.Duration(config.External.Scheduling.TimeoutSeconds) * time.Second,
		},
		baseURL: config.External.Scheduling.BaseURL,
		config:  config,
	}
}

func (c *checkerImpl) BusyRanges(ctx context.Context, courtID string, date time.Time) ([]timeslot.Range, error) {
	endpoint := fmt.Sprintf("%s/v1/courts/%s/busy?date=%s",
		c.baseURL, url.PathEscape(courtID), timezone.Format(date, c.config.Booking.DateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build external scheduling request")

		return nil, fmt.Errorf("failed to build external scheduling request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("courtID", courtID).Msg("External scheduling request failed")

		return nil, fmt.Errorf("external scheduling request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("courtID", courtID).Msg("External scheduling returned non-OK status")

		return nil, fmt.Errorf("external scheduling returned status %d", resp.StatusCode)
	}

	var body busyResponseDTO

	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode external scheduling response")

		return nil, fmt.Errorf("failed to decode external scheduling response: %w", err)
	}

	ranges := make([]timeslot.Range, 0, len(body.Data))

	for _, item := range body.Data {
		from, err := c.onDate(date, item.TimeFrom)
		if err != nil {
			return nil, err
		}

		to, err := c.onDate(date, item.TimeTo)
		if err != nil {
			return nil, err
		}

		ranges = append(ranges, timeslot.Range{From: from, To: to})
	}

	return ranges, nil
}

func (c *checkerImpl) onDate(date time.Time, clockStr string) (time.Time, error) {
	clock, err := timezone.Parse(c.config.Booking.TimeFormat, clockStr)
	if err != nil {
		log.Error().Err(err).Str("value", clockStr).Msg("External scheduling returned malformed time")

		return time.Time{}, fmt.Errorf("external scheduling returned malformed time: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation()), nil
}
