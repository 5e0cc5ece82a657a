package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

const MaxPageSize = 5_000

type ReadingsPageResult struct {
	Readings      []domain.Reading
	NextPageToken string
}

// MeterReadingService stores and reads the readings of smart meters.
type MeterReadingService struct {
	repo repo.ReadingRepository
}

func NewMeterReadingService(r repo.ReadingRepository) *MeterReadingService {
	return &MeterReadingService{repo: r}
}

// StoreReadings appends readings to the meter. The meter ID must be set, there must be
// at least one reading, and amounts must not be negative.
func (s *MeterReadingService) StoreReadings(ctx context.Context, meterID string, readings []domain.Reading) error {
	if strings.TrimSpace(meterID) == "" {
		return fmt.Errorf("%w: smart meter id is required", ErrInvalidArgument)
	}
	if len(readings) == 0 {
		return fmt.Errorf("%w: at least one reading is required", ErrInvalidArgument)
	}
	for i, r := range readings {
		if r.Time.IsZero() {
			return fmt.Errorf("%w: reading %d has no time", ErrInvalidArgument, i)
		}
		if r.Amount.Sign() < 0 {
			return fmt.Errorf("%w: reading %d is negative", ErrInvalidArgument, i)
		}
	}
	if err := s.repo.Append(ctx, meterID, readings); err != nil {
		return fmt.Errorf("store readings: %w", err)
	}
	return nil
}

// Readings returns every reading of the meter in stored order.
func (s *MeterReadingService) Readings(ctx context.Context, meterID string) ([]domain.Reading, error) {
	res, err := s.ReadingsPage(ctx, meterID, 0, "")
	return res.Readings, err
}

// ReadingsPage returns a page of the meter's readings. A zero pageSize returns them all.
func (s *MeterReadingService) ReadingsPage(ctx context.Context, meterID string, pageSize int, pageToken string) (ReadingsPageResult, error) {
	offset, err := parseOffsetToken(pageSize, pageToken)
	if err != nil {
		return ReadingsPageResult{}, err
	}
	if pageSize < 0 {
		return ReadingsPageResult{}, fmt.Errorf("%w: page_size must be >= 0", ErrInvalidArgument)
	}
	if pageSize > MaxPageSize {
		return ReadingsPageResult{}, fmt.Errorf("%w: page_size too large (max %d)", ErrInvalidArgument, MaxPageSize)
	}

	readings, err := loadReadings(ctx, s.repo, meterID)
	if err != nil {
		return ReadingsPageResult{}, err
	}
	if offset > len(readings) {
		return ReadingsPageResult{}, fmt.Errorf("%w: page_token out of range", ErrInvalidArgument)
	}

	if pageSize == 0 {
		return ReadingsPageResult{Readings: readings}, nil
	}

	end := offset + pageSize
	if end > len(readings) {
		end = len(readings)
	}
	next := ""
	if end < len(readings) {
		next = strconv.Itoa(end)
	}
	return ReadingsPageResult{
		Readings:      readings[offset:end],
		NextPageToken: next,
	}, nil
}

func loadReadings(ctx context.Context, r repo.ReadingRepository, meterID string) ([]domain.Reading, error) {
	readings, err := r.List(ctx, meterID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrMeterUnknown, meterID)
	}
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

func parseOffsetToken(pageSize int, pageToken string) (int, error) {
	if pageToken == "" {
		return 0, nil
	}
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: page_token requires page_size", ErrInvalidArgument)
	}
	n, err := strconv.Atoi(pageToken)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid page_token", ErrInvalidArgument)
	}
	return n, nil
}
