package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
)

func TestCreateUserRequestValidation(t *testing.T) {
	v := validation.New()
	worker := types.UserTypeWorker

	valid := CreateUserRequest{Name: "A", Email: "a@x.com", Phone: "+15551234567", Password: "secret1", Type: &worker}
	assert.NoError(t, v.Struct(valid))

	missingType := valid
	missingType.Type = nil
	err := v.Struct(missingType)
	var fe *validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "type")

	bad := CreateUserRequest{Email: "nope", Phone: "x", Password: "123", Type: &worker}
	err = v.Struct(bad)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "name")
	assert.Contains(t, fe.Fields, "email")
	assert.Contains(t, fe.Fields, "phone")
	assert.Contains(t, fe.Fields, "password")

	unknown := types.UserType(7)
	withUnknownType := valid
	withUnknownType.Type = &unknown
	require.ErrorAs(t, v.Struct(withUnknownType), &fe)
	assert.Contains(t, fe.Fields, "type")
}

func TestUpdateUserRequestDecoding(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","email":null,"type":0}`), &req))

	assert.True(t, req.Name.Valid)
	assert.False(t, req.Email.Valid)
	assert.False(t, req.Phone.Valid)
	require.NotNil(t, req.Type)
	assert.Equal(t, types.UserTypeWorker, *req.Type)

	assert.NoError(t, validation.New().Struct(req))

	var named UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Supervisor"}`), &named))
	require.NotNil(t, named.Type)
	assert.Equal(t, types.UserTypeSupervisor, *named.Type)

	var cleared UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":null}`), &cleared))
	assert.Nil(t, cleared.Type)
}

func TestPasswordLengthLimit(t *testing.T) {
	v := validation.New()
	long := strings.Repeat("a", 80)

	var fe *validation.FieldErrors
	require.ErrorAs(t, v.Struct(UpdateUserRequest{Password: null.StringFrom(long)}), &fe)
	assert.Contains(t, fe.Fields, "password")

	// 30 three-byte runes pass the character limit but not bcrypt's byte limit.
	wide := strings.Repeat("€", 30)
	require.ErrorAs(t, v.Struct(UpdateUserRequest{Password: null.StringFrom(wide)}), &fe)
	assert.Equal(t, "must be at most 72 bytes", fe.Fields["password"])

	assert.NoError(t, v.Struct(UpdateUserRequest{Password: null.StringFrom(strings.Repeat("a", 72))}))
}

func TestPresent(t *testing.T) {
	_, ok := Present(null.String{})
	assert.False(t, ok)

	_, ok = Present(null.StringFrom("   "))
	assert.False(t, ok)

	v, ok := Present(null.StringFrom(" Bob "))
	assert.True(t, ok)
	assert.Equal(t, "Bob", v)
}

func TestUserResponseHasNoPassword(t *testing.T) {
	resp := NewUserResponse(types.User{ID: 3, Name: "A", PasswordHash: "hash", Type: types.UserTypeSupervisor})
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), "hash")
	assert.Contains(t, string(data), `"typeName":"Supervisor"`)
}

func TestZoneTypeRequestValidation(t *testing.T) {
	v := validation.New()
	ok := CreateZoneTypeRequest{Name: "Cold", Code: "COLD_STORE", Color: "#fff", Priority: 3}
	assert.NoError(t, v.Struct(ok))
	assert.Equal(t, "#fff", ok.ColorOrDefault())
	assert.Equal(t, "#0066cc", CreateZoneTypeRequest{}.ColorOrDefault())

	var fe *validation.FieldErrors
	bad := CreateZoneTypeRequest{Name: "C", Code: "cold", Color: "red", Priority: 11, IsRestricted: 2}
	require.ErrorAs(t, v.Struct(bad), &fe)
	for _, field := range []string{"name", "code", "color", "priority", "isRestricted"} {
		assert.Contains(t, fe.Fields, field)
	}
}

func TestAssetRequestValidation(t *testing.T) {
	v := validation.New()
	var req CreateAssetRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Forklift","zoneId":2,"purchaseValue":"-1"}`), &req))

	var fe *validation.FieldErrors
	require.ErrorAs(t, v.Struct(req), &fe)
	assert.Contains(t, fe.Fields, "purchaseValue")

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Forklift","zoneId":2,"purchaseValue":"1500.25"}`), &req))
	assert.NoError(t, v.Struct(req))
}

func TestZoneResponseDerived(t *testing.T) {
	capacity := 10
	z := types.Zone{Name: "Dock", Capacity: &capacity, CurrentAssetCount: 9, ZoneTypeRestricted: 1}
	z.Status = types.StatusActive

	resp := NewZoneResponse(z, 0.8)
	assert.True(t, resp.IsRestricted)
	assert.True(t, resp.IsNearCapacity)
	assert.False(t, resp.IsAtCapacity)
	assert.InDelta(t, 90.0, resp.CapacityUtilization, 1e-9)
	assert.Equal(t, "Active", resp.StatusName)
}

func TestAssetLogResponse(t *testing.T) {
	from := 1
	resp := NewAssetLogResponse(types.AssetLog{FromZoneID: &from, ToZoneID: 2, FromZoneName: "A", ToZoneName: "B", MovementType: types.MovementTransfer})
	assert.False(t, resp.IsInitialCheckIn)
	assert.True(t, resp.IsTransferBetweenZones)
	assert.Equal(t, "Moved from A to B", resp.MovementDescription)

	asset := NewAssetResponse(types.Asset{Name: "X"}, time.Now())
	assert.Equal(t, "Unknown", asset.ZoneName)
}
