package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/services"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/internal/throttle"
	"github.com/zonetrack/apiserver/types"
)

type fakeUsers struct {
	users       map[int]types.User
	password    string
	createErr   error
	created     dto.CreateUserRequest
	updated     dto.UpdateUserRequest
	byTypeCalls []types.UserType
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int]types.User{}}
}

func (f *fakeUsers) ListAll(context.Context) ([]types.User, error) {
	out := make([]types.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) Create(_ context.Context, req dto.CreateUserRequest) (types.User, error) {
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	f.created = req
	u := types.User{ID: len(f.users) + 1, Name: req.Name, Email: req.Email, Phone: req.Phone, Type: *req.Type}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, id int, req dto.UpdateUserRequest) (bool, error) {
	f.updated = req
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	_, name := dto.Present(req.Name)
	_, email := dto.Present(req.Email)
	return name || email || req.Type != nil, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUsers) ListByType(_ context.Context, userType types.UserType) ([]types.User, error) {
	f.byTypeCalls = append(f.byTypeCalls, userType)
	out := make([]types.User, 0)
	for _, u := range f.users {
		if u.Type == userType {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (types.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) && password == f.password {
			return u, nil
		}
	}
	return types.User{}, services.ErrInvalidCredentials
}

type memoryCounter struct {
	values map[string]int64
}

func (m *memoryCounter) Get(_ context.Context, key string) (string, error) {
	return strconv.FormatInt(m.values[key], 10), nil
}

func (m *memoryCounter) Incr(_ context.Context, key string) (int64, error) {
	m.values[key]++
	return m.values[key], nil
}

func (m *memoryCounter) Expire(context.Context, string, time.Duration) error { return nil }

func (m *memoryCounter) Del(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func newLimiter(maxAttempts int) *throttle.LoginLimiter {
	return throttle.NewLoginLimiter(&memoryCounter{values: map[string]int64{}}, maxAttempts, time.Minute)
}

type fakeZoneTypes struct {
	items map[int]types.ZoneType
	err   error
}

func (f *fakeZoneTypes) List(context.Context, bool) ([]types.ZoneType, error) {
	out := make([]types.ZoneType, 0, len(f.items))
	for _, zt := range f.items {
		out = append(out, zt)
	}
	return out, nil
}

func (f *fakeZoneTypes) Get(_ context.Context, id int) (types.ZoneType, error) {
	zt, ok := f.items[id]
	if !ok {
		return types.ZoneType{}, store.ErrNotFound
	}
	return zt, nil
}

func (f *fakeZoneTypes) Create(_ context.Context, req dto.CreateZoneTypeRequest) (types.ZoneType, error) {
	if f.err != nil {
		return types.ZoneType{}, f.err
	}
	zt := types.ZoneType{Name: req.Name, Code: req.Code, Color: req.ColorOrDefault()}
	zt.ID = len(f.items) + 1
	f.items[zt.ID] = zt
	return zt, nil
}

func (f *fakeZoneTypes) Update(ctx context.Context, id int, _ dto.UpdateZoneTypeRequest) (types.ZoneType, error) {
	return f.Get(ctx, id)
}

func (f *fakeZoneTypes) Delete(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	_, err := f.Get(ctx, id)
	return err
}

type fakeAssets struct {
	assets  map[int]types.Asset
	moveErr error
	moved   dto.MoveAssetRequest
	filter  store.AssetFilter
	logs    []types.AssetLog
}

func (f *fakeAssets) List(_ context.Context, filter store.AssetFilter) ([]types.Asset, error) {
	f.filter = filter
	out := make([]types.Asset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssets) Get(_ context.Context, id int) (types.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return types.Asset{}, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssets) Create(_ context.Context, req dto.CreateAssetRequest) (types.Asset, error) {
	a := types.Asset{Name: req.Name, ZoneID: req.ZoneID}
	a.ID = 40
	f.assets[a.ID] = a
	return a, nil
}

func (f *fakeAssets) Update(ctx context.Context, id int, _ dto.UpdateAssetRequest) (types.Asset, error) {
	return f.Get(ctx, id)
}

func (f *fakeAssets) Delete(ctx context.Context, id int) error {
	_, err := f.Get(ctx, id)
	return err
}

func (f *fakeAssets) Move(ctx context.Context, id int, req dto.MoveAssetRequest) (types.AssetLog, error) {
	f.moved = req
	if f.moveErr != nil {
		return types.AssetLog{}, f.moveErr
	}
	a, err := f.Get(ctx, id)
	if err != nil {
		return types.AssetLog{}, err
	}
	from := a.ZoneID
	return types.AssetLog{
		Entity:       types.Entity{ID: 9},
		AssetID:      id,
		FromZoneID:   &from,
		FromZoneName: "Dock",
		ToZoneID:     req.ToZoneID,
		ToZoneName:   "Vault",
		MovementType: types.MovementTransfer,
		ShiftTime:    req.ShiftTime,
	}, nil
}

func (f *fakeAssets) Logs(ctx context.Context, assetID int) ([]types.AssetLog, error) {
	if _, err := f.Get(ctx, assetID); err != nil {
		return nil, err
	}
	return f.logs, nil
}

func (f *fakeAssets) ListByZone(_ context.Context, zoneID int) ([]types.Asset, error) {
	if zoneID != 1 {
		return nil, store.ErrNotFound
	}
	return []types.Asset{f.assets[40]}, nil
}

type fakeReports struct {
	archiveErr error
}

func (f *fakeReports) ExportAssets(_ context.Context, w io.Writer) error {
	_, err := w.Write([]byte("PK-workbook"))
	return err
}

func (f *fakeReports) Archive(context.Context) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	return "reports/assets.xlsx", nil
}

type fakeSummary struct{}

func (fakeSummary) Summary(context.Context) (types.SystemSummary, error) {
	return types.SystemSummary{TotalAssets: 3, AssetsByZoneType: map[string]int{"Storage": 3}}, nil
}

func serve(t *testing.T, mount func(chi.Router), method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	mount(router)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
