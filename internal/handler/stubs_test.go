package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/handler"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/service"
)

// Bearer tokens understood by stubAuth.
const (
	tokenAdmin     = "admin-token"
	tokenManager   = "manager-token"
	tokenInspector = "inspector-token"
	tokenVendor    = "vendor-token"
)

var managedStation = int64(7)

var principals = map[string]model.Principal{
	tokenAdmin:     {UserID: 1, Role: model.RoleRailwayAdmin},
	tokenManager:   {UserID: 2, Role: model.RoleStationManager, StationID: &managedStation},
	tokenInspector: {UserID: 3, Role: model.RoleInspector},
	tokenVendor:    {UserID: 4, Role: model.RoleVendor},
}

type stubAuth struct {
	registered service.RegisterInput
	loginErr   error
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (model.User, error) {
	s.registered = in
	return model.User{ID: 10, Name: in.Name, Email: in.Email, Role: in.Role, Status: model.UserActive, PasswordHash: "secret-hash"}, nil
}

func (s *stubAuth) Login(_ context.Context, email, _ string) (model.Session, error) {
	if s.loginErr != nil {
		return model.Session{}, s.loginErr
	}
	return model.Session{Token: tokenVendor, User: model.User{ID: 4, Email: email, Role: model.RoleVendor}}, nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (model.Principal, error) {
	p, ok := principals[token]
	if !ok {
		return model.Principal{}, service.ErrUnauthorized
	}
	return p, nil
}

func (s *stubAuth) Me(_ context.Context, p model.Principal) (model.User, error) {
	return model.User{ID: p.UserID, Role: p.Role}, nil
}

func (s *stubAuth) CreateAdmin(context.Context, string, string, string) (model.User, error) {
	return model.User{}, nil
}

type stubStations struct {
	lastFilter repository.StationFilter
	lastParams pagination.Params
	total      int
	getErr     error
}

func (s *stubStations) CreateStation(_ context.Context, st model.Station) (model.Station, error) {
	st.ID = 1
	return st, nil
}

func (s *stubStations) GetStation(_ context.Context, id int64) (model.Station, error) {
	if s.getErr != nil {
		return model.Station{}, s.getErr
	}
	return model.Station{ID: id, Name: "Central"}, nil
}

func (s *stubStations) ListStations(_ context.Context, f repository.StationFilter, p pagination.Params) (pagination.Result[model.Station], error) {
	s.lastFilter, s.lastParams = f, p
	return pagination.Build[model.Station](nil, s.total, p.Page, p.Limit), nil
}

type stubPlatforms struct {
	lastStation int64
	lastParams  pagination.Params
	lastCaller  model.Principal
}

func (s *stubPlatforms) CreatePlatform(_ context.Context, p model.Principal, pl model.Platform) (model.Platform, error) {
	s.lastCaller = p
	if !p.Is(model.RoleRailwayAdmin) && !p.ManagesStation(pl.StationID) {
		return model.Platform{}, service.ErrForbidden
	}
	pl.ID = 1
	return pl, nil
}

func (s *stubPlatforms) ListPlatforms(_ context.Context, stationID int64, p pagination.Params) (pagination.Result[model.Platform], error) {
	s.lastStation, s.lastParams = stationID, p
	return pagination.Build([]model.Platform{{ID: 1, StationID: stationID, Number: 1}}, 1, p.Page, p.Limit), nil
}

type stubUsers struct {
	lastFilter repository.UserFilter
	lastParams pagination.Params
	decided    int64
	decideErr  error
}

func (s *stubUsers) ListUsers(_ context.Context, f repository.UserFilter, p pagination.Params) (pagination.Result[model.User], error) {
	s.lastFilter, s.lastParams = f, p
	return pagination.Build[model.User](nil, 0, p.Page, p.Limit), nil
}

func (s *stubUsers) ListPendingAdmins(_ context.Context, p pagination.Params) (pagination.Result[model.User], error) {
	s.lastParams = p
	return pagination.Build([]model.User{{ID: 5, Status: model.UserPending}}, 1, p.Page, p.Limit), nil
}

func (s *stubUsers) ApproveAdmin(_ context.Context, id int64) (model.User, error) {
	s.decided = id
	return model.User{ID: id, Status: model.UserActive}, s.decideErr
}

func (s *stubUsers) RejectAdmin(_ context.Context, id int64) (model.User, error) {
	s.decided = id
	return model.User{ID: id, Status: model.UserRejected}, s.decideErr
}

type stubLicenses struct {
	lastFilter repository.LicenseFilter
	lastParams pagination.Params
	lastCaller model.Principal
	applied    service.ApplyInput
	updateErr  error
}

func (s *stubLicenses) Apply(_ context.Context, p model.Principal, in service.ApplyInput) (model.License, error) {
	s.lastCaller, s.applied = p, in
	return model.License{ID: 1, VendorID: p.UserID, StationID: in.StationID, Status: model.LicensePending}, nil
}

func (s *stubLicenses) ListLicenses(_ context.Context, p model.Principal, f repository.LicenseFilter, params pagination.Params) (pagination.Result[model.License], error) {
	s.lastCaller, s.lastFilter, s.lastParams = p, f, params
	return pagination.Build[model.License](nil, 0, params.Page, params.Limit), nil
}

func (s *stubLicenses) UpdateStatus(_ context.Context, p model.Principal, id int64, status model.LicenseStatus, remarks string) (model.License, error) {
	s.lastCaller = p
	if s.updateErr != nil {
		return model.License{}, s.updateErr
	}
	return model.License{ID: id, Status: status, Remarks: remarks}, nil
}

type stubDashboard struct{}

func (stubDashboard) Summary(_ context.Context, p model.Principal) (model.DashboardSummary, error) {
	return model.DashboardSummary{Role: p.Role, Licenses: map[model.LicenseStatus]int{}}, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type fixture struct {
	engine    *gin.Engine
	auth      *stubAuth
	stations  *stubStations
	platforms *stubPlatforms
	users     *stubUsers
	licenses  *stubLicenses
}

var testLimits = config.PaginationConfig{
	DefaultLimit: 10,
	MaxLimit:     100,
	Resources: map[string]config.LimitConfig{
		"stations": {DefaultLimit: 20, MaxLimit: 50},
	},
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		engine:    gin.New(),
		auth:      &stubAuth{},
		stations:  &stubStations{},
		platforms: &stubPlatforms{},
		users:     &stubUsers{},
		licenses:  &stubLicenses{},
	}
	handler.Register(f.engine, handler.Deps{
		Pinger:     stubPinger{},
		Pagination: testLimits,
		Auth:       f.auth,
		Stations:   f.stations,
		Platforms:  f.platforms,
		Users:      f.users,
		Licenses:   f.licenses,
		Dashboard:  stubDashboard{},
	})
	return f
}

// do sends a request with an optional bearer token and JSON body.
func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func url(path string) string { return handler.APIV1Prefix + path }
