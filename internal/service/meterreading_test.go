package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo/memrepo"
)

func TestStoreReadings_Validation(t *testing.T) {
	t.Parallel()

	svc := NewMeterReadingService(memrepo.NewReadings())
	ctx := context.Background()
	ok := []domain.Reading{at(0, "1.0")}

	assert.ErrorIs(t, svc.StoreReadings(ctx, "", ok), ErrInvalidArgument)
	assert.ErrorIs(t, svc.StoreReadings(ctx, "  ", ok), ErrInvalidArgument)
	assert.ErrorIs(t, svc.StoreReadings(ctx, smartMeterID, nil), ErrInvalidArgument)
	assert.ErrorIs(t, svc.StoreReadings(ctx, smartMeterID, []domain.Reading{{Amount: domain.MustDecimal("1")}}), ErrInvalidArgument)
	assert.ErrorIs(t, svc.StoreReadings(ctx, smartMeterID, []domain.Reading{at(0, "-0.5")}), ErrInvalidArgument)

	_, err := svc.Readings(ctx, smartMeterID)
	assert.ErrorIs(t, err, ErrMeterUnknown)
}

func TestStoreReadings_Appends(t *testing.T) {
	t.Parallel()

	svc := NewMeterReadingService(memrepo.NewReadings())
	ctx := context.Background()

	require.NoError(t, svc.StoreReadings(ctx, smartMeterID, []domain.Reading{at(time.Hour, "1.0")}))
	require.NoError(t, svc.StoreReadings(ctx, smartMeterID, []domain.Reading{at(0, "2.0"), at(0, "0")}))

	got, err := svc.Readings(ctx, smartMeterID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1.0", got[0].Amount.String())
}

func TestReadingsPage(t *testing.T) {
	t.Parallel()

	svc := NewMeterReadingService(memrepo.NewReadings())
	ctx := context.Background()
	require.NoError(t, svc.StoreReadings(ctx, smartMeterID, []domain.Reading{
		at(3*time.Hour, "1"), at(2*time.Hour, "2"), at(time.Hour, "3"),
	}))

	first, err := svc.ReadingsPage(ctx, smartMeterID, 2, "")
	require.NoError(t, err)
	assert.Len(t, first.Readings, 2)
	assert.Equal(t, "2", first.NextPageToken)

	second, err := svc.ReadingsPage(ctx, smartMeterID, 2, first.NextPageToken)
	require.NoError(t, err)
	require.Len(t, second.Readings, 1)
	assert.Equal(t, "3", second.Readings[0].Amount.String())
	assert.Empty(t, second.NextPageToken)

	_, err = svc.ReadingsPage(ctx, smartMeterID, 0, "1")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.ReadingsPage(ctx, smartMeterID, 2, "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.ReadingsPage(ctx, smartMeterID, 2, "10")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.ReadingsPage(ctx, smartMeterID, MaxPageSize+1, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
