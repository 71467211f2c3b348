package service_test

import (
	"context"
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

func TestPlatformService_CreatePlatform_Permissions(t *testing.T) {
	stations := newFakeStationRepo()
	own, _ := stations.Create(context.Background(), model.Station{Name: "Own", Code: "OWN"})
	other, _ := stations.Create(context.Background(), model.Station{Name: "Other", Code: "OTH"})
	c := &recordingCache{Cache: cache.Noop{}}
	svc := service.NewPlatformService(newFakePlatformRepo(), stations, c, zerolog.New(io.Discard))

	admin := model.Principal{UserID: 1, Role: model.RoleRailwayAdmin}
	manager := model.Principal{UserID: 2, Role: model.RoleStationManager, StationID: &own.ID}
	vendor := model.Principal{UserID: 3, Role: model.RoleVendor}

	_, err := svc.CreatePlatform(context.Background(), admin, model.Platform{StationID: other.ID, Number: 1})
	require.NoError(t, err)

	pl, err := svc.CreatePlatform(context.Background(), manager, model.Platform{StationID: own.ID, Number: 2, Name: " East "})
	require.NoError(t, err)
	assert.Equal(t, "East", pl.Name)
	assert.Contains(t, c.deleted, "dashboard:station_manager:1")

	_, err = svc.CreatePlatform(context.Background(), manager, model.Platform{StationID: other.ID, Number: 3})
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.CreatePlatform(context.Background(), vendor, model.Platform{StationID: own.ID, Number: 4})
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.CreatePlatform(context.Background(), admin, model.Platform{StationID: own.ID, Number: 2})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestPlatformService_CreatePlatform_Validation(t *testing.T) {
	svc := service.NewPlatformService(newFakePlatformRepo(), newFakeStationRepo(), nil, zerolog.New(io.Discard))
	admin := model.Principal{UserID: 1, Role: model.RoleRailwayAdmin}

	_, err := svc.CreatePlatform(context.Background(), admin, model.Platform{StationID: 0, Number: 0})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(service.FieldErrors(err), "station_id"))
	assert.True(t, hasField(service.FieldErrors(err), "number"))

	_, err = svc.CreatePlatform(context.Background(), admin, model.Platform{StationID: 99, Number: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlatformService_ListPlatforms(t *testing.T) {
	stations := newFakeStationRepo()
	st, _ := stations.Create(context.Background(), model.Station{Name: "Big", Code: "BIG"})
	platforms := newFakePlatformRepo()
	for n := 1; n <= 12; n++ {
		_, err := platforms.Create(context.Background(), model.Platform{StationID: st.ID, Number: n})
		require.NoError(t, err)
	}
	svc := service.NewPlatformService(platforms, stations, nil, zerolog.New(io.Discard))

	res, err := svc.ListPlatforms(context.Background(), st.ID, pagination.Resolve(map[string]string{"page": "2", "limit": "5"}, 20, 50))
	require.NoError(t, err)
	require.Len(t, res.Data, 5)
	assert.Equal(t, 6, res.Data[0].Number)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNextPage)
	assert.True(t, res.Pagination.HasPreviousPage)

	_, err = svc.ListPlatforms(context.Background(), 404, pagination.Resolve(nil, 20, 50))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
