package service_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/service"
)

func TestStationService_CreateStation_Normalizes(t *testing.T) {
	repo := newFakeStationRepo()
	c := &recordingCache{Cache: cache.Noop{}}
	svc := service.NewStationService(repo, c, zerolog.New(io.Discard))

	out, err := svc.CreateStation(context.Background(), model.Station{Name: "  Dadar ", Code: " dr ", City: "Mumbai", Zone: "cr"})
	require.NoError(t, err)
	assert.Equal(t, "Dadar", out.Name)
	assert.Equal(t, "DR", out.Code)
	assert.Equal(t, "CR", out.Zone)
	assert.ElementsMatch(t, []string{"dashboard:railway_admin", "dashboard:inspector"}, c.deleted)
}

func TestStationService_CreateStation_Validation(t *testing.T) {
	svc := service.NewStationService(newFakeStationRepo(), nil, zerolog.New(io.Discard))
	_, err := svc.CreateStation(context.Background(), model.Station{Name: "X", Code: "", City: ""})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	fields := service.FieldErrors(err)
	assert.True(t, hasField(fields, "name"))
	assert.True(t, hasField(fields, "code"))
	assert.True(t, hasField(fields, "city"))
}

func TestStationService_CreateStation_DuplicatePropagates(t *testing.T) {
	repo := newFakeStationRepo()
	repo.createErr = repository.ErrAlreadyExists
	svc := service.NewStationService(repo, nil, zerolog.New(io.Discard))
	_, err := svc.CreateStation(context.Background(), model.Station{Name: "Dadar", Code: "DR", City: "Mumbai"})
	assert.Equal(t, repository.ErrAlreadyExists, err)
}

func TestStationService_GetStation(t *testing.T) {
	repo := newFakeStationRepo()
	svc := service.NewStationService(repo, nil, zerolog.New(io.Discard))

	_, err := svc.GetStation(context.Background(), 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.GetStation(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStationService_ListStations_Envelope(t *testing.T) {
	repo := newFakeStationRepo()
	for i := 0; i < 47; i++ {
		_, err := repo.Create(context.Background(), model.Station{Name: fmt.Sprintf("S%02d", i), Code: fmt.Sprintf("C%02d", i)})
		require.NoError(t, err)
	}
	svc := service.NewStationService(repo, nil, zerolog.New(io.Discard))

	res, err := svc.ListStations(context.Background(), repository.StationFilter{}, pagination.Resolve(map[string]string{"page": "5", "limit": "10"}, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, repository.Page{Limit: 10, Offset: 40}, repo.lastPage)
	assert.Len(t, res.Data, 7)
	assert.Equal(t, pagination.Meta{CurrentPage: 5, TotalPages: 5, TotalItems: 47, ItemsPerPage: 10, HasNextPage: false, HasPreviousPage: true}, res.Pagination)
}

func TestStationService_ListStations_PastEnd(t *testing.T) {
	repo := newFakeStationRepo()
	_, err := repo.Create(context.Background(), model.Station{Name: "Only", Code: "ONE"})
	require.NoError(t, err)
	svc := service.NewStationService(repo, nil, zerolog.New(io.Discard))

	res, err := svc.ListStations(context.Background(), repository.StationFilter{}, pagination.Params{Page: 3, Limit: 10, Skip: 20})
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 1, res.Pagination.TotalItems)
	assert.True(t, res.Pagination.HasPreviousPage)
	assert.False(t, res.Pagination.HasNextPage)
}

func TestStationService_ListStations_GuardsHandBuiltParams(t *testing.T) {
	repo := newFakeStationRepo()
	svc := service.NewStationService(repo, nil, zerolog.New(io.Discard))

	res, err := svc.ListStations(context.Background(), repository.StationFilter{Zone: " wr "}, pagination.Params{Page: -2, Limit: 0, Skip: -50})
	require.NoError(t, err)
	assert.Equal(t, repository.Page{Limit: pagination.DefaultLimit, Offset: 0}, repo.lastPage)
	assert.Equal(t, "WR", repo.lastF.Zone)
	assert.Equal(t, 1, res.Pagination.CurrentPage)
}
