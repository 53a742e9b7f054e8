package services

import (
	"context"
	"sort"
	"time"

	"github.com/zonetrack/apiserver/internal/events"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
)

type fakeUserRepo struct {
	users       map[int]types.User
	nextID      int
	updates     []store.Changes
	createErr   error
	updateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (f *fakeUserRepo) List(context.Context) ([]types.User, error) {
	out := make([]types.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) ListByType(ctx context.Context, t types.UserType) ([]types.User, error) {
	all, _ := f.List(ctx)
	out := make([]types.User, 0)
	for _, u := range all {
		if u.Type == t {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	user.PasswordHash = ""
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id int, changes store.Changes) error {
	f.updateCalls++
	f.updates = append(f.updates, changes)
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, col := range changes.Columns() {
		v, _ := changes.Value(col)
		switch col {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "type":
			u.Type = types.UserType(v.(int))
		}
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeZoneTypeRepo struct {
	items map[int]types.ZoneType
}

func (f *fakeZoneTypeRepo) List(context.Context, bool) ([]types.ZoneType, error) {
	out := make([]types.ZoneType, 0, len(f.items))
	for _, zt := range f.items {
		out = append(out, zt)
	}
	return out, nil
}

func (f *fakeZoneTypeRepo) Get(_ context.Context, id int) (types.ZoneType, error) {
	zt, ok := f.items[id]
	if !ok {
		return types.ZoneType{}, store.ErrNotFound
	}
	return zt, nil
}

func (f *fakeZoneTypeRepo) Create(_ context.Context, zt types.ZoneType) (types.ZoneType, error) {
	zt.ID = len(f.items) + 1
	zt.Status = types.StatusActive
	f.items[zt.ID] = zt
	return zt, nil
}

func (f *fakeZoneTypeRepo) Update(context.Context, int, store.Changes) error { return nil }

func (f *fakeZoneTypeRepo) Delete(_ context.Context, id int) error {
	zt := f.items[id]
	zt.Status = types.StatusDeleted
	f.items[id] = zt
	return nil
}

type fakeZoneRepo struct {
	zones  map[int]types.Zone
	locked []int
}

func (f *fakeZoneRepo) List(context.Context, store.ZoneFilter) ([]types.Zone, error) {
	out := make([]types.Zone, 0, len(f.zones))
	for _, z := range f.zones {
		out = append(out, z)
	}
	return out, nil
}

func (f *fakeZoneRepo) Get(_ context.Context, id int) (types.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return types.Zone{}, store.ErrNotFound
	}
	return z, nil
}

func (f *fakeZoneRepo) GetForUpdate(ctx context.Context, id int) (types.Zone, error) {
	f.locked = append(f.locked, id)
	return f.Get(ctx, id)
}

func (f *fakeZoneRepo) Create(_ context.Context, z types.Zone) (types.Zone, error) {
	z.ID = len(f.zones) + 1
	z.Status = types.StatusActive
	f.zones[z.ID] = z
	return z, nil
}

func (f *fakeZoneRepo) Update(context.Context, int, store.Changes) error { return nil }

func (f *fakeZoneRepo) AdjustAssetCount(_ context.Context, id, delta int) error {
	z, ok := f.zones[id]
	if !ok {
		return store.ErrNotFound
	}
	z.CurrentAssetCount += delta
	if z.CurrentAssetCount < 0 {
		z.CurrentAssetCount = 0
	}
	f.zones[id] = z
	return nil
}

func (f *fakeZoneRepo) Delete(_ context.Context, id int) error {
	z := f.zones[id]
	z.Status = types.StatusDeleted
	f.zones[id] = z
	return nil
}

type fakeAssetRepo struct {
	assets map[int]types.Asset
	zones  *fakeZoneRepo
	codes  map[string]bool
}

func (f *fakeAssetRepo) List(_ context.Context, filter store.AssetFilter) ([]types.Asset, error) {
	out := make([]types.Asset, 0)
	for _, a := range f.assets {
		if filter.ZoneID > 0 && a.ZoneID != filter.ZoneID {
			continue
		}
		if !filter.IncludeDeleted && a.IsDeleted() {
			continue
		}
		out = append(out, f.join(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssetRepo) join(a types.Asset) types.Asset {
	if z, ok := f.zones.zones[a.ZoneID]; ok {
		a.ZoneName = z.Name
		a.ZoneTypeName = z.ZoneTypeName
		a.ZoneRestricted = z.ZoneTypeRestricted
	}
	return a
}

func (f *fakeAssetRepo) Get(_ context.Context, id int) (types.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return types.Asset{}, store.ErrNotFound
	}
	return f.join(a), nil
}

func (f *fakeAssetRepo) GetForUpdate(ctx context.Context, id int) (types.Asset, error) {
	return f.Get(ctx, id)
}

func (f *fakeAssetRepo) CodeExists(_ context.Context, code string, _ int) (bool, error) {
	return f.codes[code], nil
}

func (f *fakeAssetRepo) Create(_ context.Context, a types.Asset) (types.Asset, error) {
	a.ID = len(f.assets) + 1
	a.Status = types.StatusActive
	f.assets[a.ID] = a
	return a, nil
}

func (f *fakeAssetRepo) Update(_ context.Context, id int, _ store.Changes) error {
	if _, ok := f.assets[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (f *fakeAssetRepo) SetZone(_ context.Context, id, zoneID int) error {
	a := f.assets[id]
	a.ZoneID = zoneID
	f.assets[id] = a
	return nil
}

func (f *fakeAssetRepo) Delete(_ context.Context, id int) error {
	a := f.assets[id]
	a.Status = types.StatusDeleted
	f.assets[id] = a
	return nil
}

type fakeLogRepo struct {
	entries []types.AssetLog
	purged  time.Time
}

func (f *fakeLogRepo) Create(_ context.Context, entry types.AssetLog) (types.AssetLog, error) {
	entry.ID = len(f.entries) + 1
	entry.Status = types.StatusActive
	entry.CreatedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLogRepo) ListByAsset(_ context.Context, assetID int) ([]types.AssetLog, error) {
	out := make([]types.AssetLog, 0)
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].AssetID == assetID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeLogRepo) Recent(_ context.Context, limit int) ([]types.AssetLog, error) {
	out := make([]types.AssetLog, 0)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeLogRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.purged = cutoff
	return 2, nil
}

type fakeAlertRepo struct {
	alerts []types.Alert
	purged time.Time
}

func (f *fakeAlertRepo) Create(_ context.Context, a types.Alert) (types.Alert, error) {
	a.ID = len(f.alerts) + 1
	a.Status = types.StatusActive
	f.alerts = append(f.alerts, a)
	return a, nil
}

func (f *fakeAlertRepo) Get(_ context.Context, id int) (types.Alert, error) {
	if id < 1 || id > len(f.alerts) {
		return types.Alert{}, store.ErrNotFound
	}
	return f.alerts[id-1], nil
}

func (f *fakeAlertRepo) List(context.Context, store.AlertFilter) ([]types.Alert, error) {
	return f.alerts, nil
}

func (f *fakeAlertRepo) CountForAsset(_ context.Context, assetID int) (int, error) {
	n := 0
	for _, a := range f.alerts {
		if a.AssetID != nil && *a.AssetID == assetID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAlertRepo) MarkRead(_ context.Context, id int) error {
	if id < 1 || id > len(f.alerts) {
		return store.ErrNotFound
	}
	f.alerts[id-1].IsRead = true
	return nil
}

func (f *fakeAlertRepo) Delete(context.Context, int) error { return nil }

func (f *fakeAlertRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.purged = cutoff
	return 5, nil
}

// immediateTx runs fn without a transaction and records the calls.
type immediateTx struct {
	calls int
}

func (t *immediateTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	moved  []events.AssetMoved
	raised []events.AlertRaised
}

func (p *recordingPublisher) AssetMoved(_ context.Context, e events.AssetMoved) error {
	p.moved = append(p.moved, e)
	return nil
}

func (p *recordingPublisher) AlertRaised(_ context.Context, e events.AlertRaised) error {
	p.raised = append(p.raised, e)
	return nil
}
