package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

// window applies a Page to an already filtered and ordered slice, like the SQL LIMIT/OFFSET does.
func window[T any](all []T, p repository.Page) repository.PageResult[T] {
	res := repository.PageResult[T]{Items: []T{}, Total: len(all)}
	if p.Offset >= len(all) {
		return res
	}
	end := min(len(all), p.Offset+p.Limit)
	res.Items = append(res.Items, all[p.Offset:end]...)
	return res
}

type fakeStationRepo struct {
	nextID    int64
	items     map[int64]model.Station
	createErr error
	lastPage  repository.Page
	lastF     repository.StationFilter
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{nextID: 1, items: map[int64]model.Station{}}
}

func (f *fakeStationRepo) Create(_ context.Context, s model.Station) (model.Station, error) {
	if f.createErr != nil {
		return model.Station{}, f.createErr
	}
	s.ID = f.nextID
	f.nextID++
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeStationRepo) GetByID(_ context.Context, id int64) (model.Station, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Station{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeStationRepo) List(_ context.Context, flt repository.StationFilter, p repository.Page) (repository.PageResult[model.Station], error) {
	f.lastPage, f.lastF = p, flt
	var all []model.Station
	for _, v := range f.items {
		if flt.Zone != "" && v.Zone != flt.Zone {
			continue
		}
		if flt.Search != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(flt.Search)) {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, p), nil
}

func (f *fakeStationRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

var _ repository.StationRepository = (*fakeStationRepo)(nil)

type fakePlatformRepo struct {
	nextID   int64
	items    map[int64]model.Platform
	lastPage repository.Page
}

func newFakePlatformRepo() *fakePlatformRepo {
	return &fakePlatformRepo{nextID: 1, items: map[int64]model.Platform{}}
}

func (f *fakePlatformRepo) Create(_ context.Context, p model.Platform) (model.Platform, error) {
	for _, v := range f.items {
		if v.StationID == p.StationID && v.Number == p.Number {
			return model.Platform{}, repository.ErrAlreadyExists
		}
	}
	p.ID = f.nextID
	f.nextID++
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePlatformRepo) GetByID(_ context.Context, id int64) (model.Platform, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Platform{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakePlatformRepo) ListByStation(_ context.Context, stationID int64, p repository.Page) (repository.PageResult[model.Platform], error) {
	f.lastPage = p
	var all []model.Platform
	for _, v := range f.items {
		if v.StationID == stationID {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return window(all, p), nil
}

var _ repository.PlatformRepository = (*fakePlatformRepo)(nil)

type fakeUserRepo struct {
	nextID int64
	items  map[int64]model.User
	lastF  repository.UserFilter
	// afterGet runs once GetByID has read a row, standing in for a writer that commits in between.
	afterGet func(id int64)
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, items: map[int64]model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	for _, v := range f.items {
		if strings.EqualFold(v.Email, u.Email) {
			return model.User{}, repository.ErrAlreadyExists
		}
	}
	u.ID = f.nextID
	u.CreatedAt = time.Unix(f.nextID, 0)
	f.nextID++
	f.items[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (model.User, error) {
	it, ok := f.items[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if f.afterGet != nil {
		f.afterGet(id)
	}
	return it, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, v := range f.items {
		if strings.EqualFold(v.Email, email) {
			return v, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, flt repository.UserFilter, p repository.Page) (repository.PageResult[model.User], error) {
	f.lastF = flt
	var all []model.User
	for _, v := range f.items {
		if len(flt.Roles) > 0 && !hasRole(flt.Roles, v.Role) {
			continue
		}
		if flt.Status != "" && v.Status != flt.Status {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, p), nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id int64, from, to model.UserStatus) (model.User, error) {
	it, ok := f.items[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if it.Status != from {
		return model.User{}, repository.ErrConflict
	}
	it.Status = to
	f.items[id] = it
	return it, nil
}

func hasRole(roles []model.Role, r model.Role) bool {
	for _, it := range roles {
		if it == r {
			return true
		}
	}
	return false
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeLicenseRepo struct {
	nextID   int64
	items    map[int64]model.License
	lastF    repository.LicenseFilter
	afterGet func(id int64)
}

func newFakeLicenseRepo() *fakeLicenseRepo {
	return &fakeLicenseRepo{nextID: 1, items: map[int64]model.License{}}
}

func (f *fakeLicenseRepo) Create(_ context.Context, l model.License) (model.License, error) {
	l.ID = f.nextID
	f.nextID++
	f.items[l.ID] = l
	return l, nil
}

func (f *fakeLicenseRepo) GetByID(_ context.Context, id int64) (model.License, error) {
	it, ok := f.items[id]
	if !ok {
		return model.License{}, repository.ErrNotFound
	}
	if f.afterGet != nil {
		f.afterGet(id)
	}
	return it, nil
}

func (f *fakeLicenseRepo) List(_ context.Context, flt repository.LicenseFilter, p repository.Page) (repository.PageResult[model.License], error) {
	f.lastF = flt
	var all []model.License
	for _, v := range f.items {
		if flt.VendorID != nil && v.VendorID != *flt.VendorID {
			continue
		}
		if flt.StationID != nil && v.StationID != *flt.StationID {
			continue
		}
		if flt.Status != "" && v.Status != flt.Status {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, p), nil
}

func (f *fakeLicenseRepo) UpdateStatus(_ context.Context, l model.License, from model.LicenseStatus) (model.License, error) {
	cur, ok := f.items[l.ID]
	if !ok {
		return model.License{}, repository.ErrNotFound
	}
	if cur.Status != from {
		return model.License{}, repository.ErrConflict
	}
	f.items[l.ID] = l
	return l, nil
}

var _ repository.LicenseRepository = (*fakeLicenseRepo)(nil)

type fakeDashboardRepo struct {
	totals    model.Totals
	counts    map[model.LicenseStatus]int
	platforms int
	calls     int
	lastF     repository.LicenseFilter
}

func (f *fakeDashboardRepo) Totals(context.Context) (model.Totals, error) {
	f.calls++
	return f.totals, nil
}

func (f *fakeDashboardRepo) LicenseCounts(_ context.Context, flt repository.LicenseFilter) (map[model.LicenseStatus]int, error) {
	f.calls++
	f.lastF = flt
	out := make(map[model.LicenseStatus]int, len(f.counts))
	for k, v := range f.counts {
		out[k] = v
	}
	return out, nil
}

func (f *fakeDashboardRepo) PlatformCount(context.Context, int64) (int, error) {
	f.calls++
	return f.platforms, nil
}

var _ repository.DashboardRepository = (*fakeDashboardRepo)(nil)

// passTx runs the unit of work inline; the fakes have no transactional state to roll back.
type passTx struct{ calls int }

func (t *passTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	t.calls++
	return fn(ctx)
}

var _ repository.TxManager = (*passTx)(nil)

// recordingCache wraps a cache and remembers which keys were invalidated.
type recordingCache struct {
	cache.Cache
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	c.deleted = append(c.deleted, keys...)
	c.mu.Unlock()
	return c.Cache.Delete(ctx, keys...)
}

func ptr[T any](v T) *T { return &v }
