//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

type userResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TypeName string `json:"typeName"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type zoneTypeResponse struct {
	ID int `json:"id"`
}

type zoneResponse struct {
	ID                int  `json:"id"`
	CurrentAssetCount int  `json:"currentAssetCount"`
	IsRestricted      bool `json:"isRestricted"`
}

type assetResponse struct {
	ID                 int  `json:"id"`
	ZoneID             int  `json:"zoneId"`
	IsInRestrictedZone bool `json:"isInRestrictedZone"`
}

type assetLogResponse struct {
	ID           int    `json:"id"`
	MovementType string `json:"movementType"`
	ToZoneID     int    `json:"toZoneId"`
}

type alertResponse struct {
	ID        int    `json:"id"`
	AlertType string `json:"alertType"`
	Severity  string `json:"severity"`
	IsRead    bool   `json:"isRead"`
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

func TestUserLifecycle(t *testing.T) {
	email := uniqueEmail("worker")
	payload := map[string]any{
		"name":     "Test Worker",
		"email":    email,
		"phone":    "+15551230000",
		"password": "secret123",
		"type":     0,
	}

	var created userResponse
	resp := doJSON(t, http.MethodPost, "/api/users", payload, http.StatusCreated, &created)
	if loc := resp.Header.Get("Location"); loc != fmt.Sprintf("/api/users/%d", created.ID) {
		t.Fatalf("unexpected location %q", loc)
	}
	if created.TypeName != "Worker" {
		t.Fatalf("unexpected type name %q", created.TypeName)
	}

	var dup errorResponse
	doJSON(t, http.MethodPost, "/api/users", payload, http.StatusConflict, &dup)
	if dup.Error != "A user with this email already exists." {
		t.Fatalf("unexpected conflict message %q", dup.Error)
	}

	doJSON(t, http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID), map[string]any{"name": "Renamed", "type": 1}, http.StatusNoContent, nil)

	var fetched userResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/users/%d", created.ID), nil, http.StatusOK, &fetched)
	if fetched.Name != "Renamed" || fetched.TypeName != "Supervisor" {
		t.Fatalf("update not applied: %+v", fetched)
	}

	var supervisors []userResponse
	doJSON(t, http.MethodGet, "/api/users/type/Supervisor", nil, http.StatusOK, &supervisors)
	found := false
	for _, u := range supervisors {
		found = found || u.ID == created.ID
	}
	if !found {
		t.Fatalf("user %d missing from supervisors", created.ID)
	}

	var login struct {
		Token string `json:"token"`
	}
	doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"email": strings.ToUpper(email), "password": "secret123"}, http.StatusOK, &login)

	var me userResponse
	doJSON(t, http.MethodGet, "/api/auth/me", nil, http.StatusOK, &me, "Authorization", "Bearer "+login.Token)
	if me.ID != created.ID {
		t.Fatalf("me returned %d, want %d", me.ID, created.ID)
	}

	doJSON(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.ID), nil, http.StatusNoContent, nil)

	var missing errorResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/users/%d", created.ID), nil, http.StatusNotFound, &missing)
	if missing.Error != fmt.Sprintf("User with ID %d not found.", created.ID) {
		t.Fatalf("unexpected not found message %q", missing.Error)
	}
}

func TestConnectionProbe(t *testing.T) {
	var probe struct {
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	doJSON(t, http.MethodGet, "/api/users/test-connection", nil, http.StatusOK, &probe)
	if probe.Message == "" || probe.Timestamp == "" {
		t.Fatalf("incomplete probe response: %+v", probe)
	}
}

func TestAssetMovementIntoRestrictedZone(t *testing.T) {
	suffix := time.Now().UnixNano() % 100000

	var storageType, vaultType zoneTypeResponse
	doJSON(t, http.MethodPost, "/api/zone-types", map[string]any{
		"name": "Storage", "code": fmt.Sprintf("STORE_%s", letters(suffix)), "priority": 1,
	}, http.StatusCreated, &storageType)
	doJSON(t, http.MethodPost, "/api/zone-types", map[string]any{
		"name": "Vault", "code": fmt.Sprintf("VAULT_%s", letters(suffix)), "isRestricted": 1, "priority": 9,
	}, http.StatusCreated, &vaultType)

	var dock, vault zoneResponse
	doJSON(t, http.MethodPost, "/api/zones", map[string]any{"name": "Dock", "zoneTypeId": storageType.ID, "capacity": 10}, http.StatusCreated, &dock)
	doJSON(t, http.MethodPost, "/api/zones", map[string]any{"name": "Vault", "zoneTypeId": vaultType.ID, "capacity": 1}, http.StatusCreated, &vault)

	var asset assetResponse
	doJSON(t, http.MethodPost, "/api/assets", map[string]any{
		"name": "Forklift", "zoneId": dock.ID, "purchaseValue": "1500.50", "shiftTime": "Morning",
	}, http.StatusCreated, &asset)

	var logs []assetLogResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/assets/%d/logs", asset.ID), nil, http.StatusOK, &logs)
	if len(logs) != 1 || logs[0].MovementType != "CHECKIN" {
		t.Fatalf("expected initial check-in, got %+v", logs)
	}

	var entry assetLogResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("/api/assets/%d/move", asset.ID), map[string]any{
		"toZoneId": vault.ID, "shiftTime": "Night", "movedBy": "e2e",
	}, http.StatusCreated, &entry)
	if entry.ToZoneID != vault.ID || entry.MovementType != "TRANSFER" {
		t.Fatalf("unexpected movement %+v", entry)
	}

	var same errorResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("/api/assets/%d/move", asset.ID), map[string]any{
		"toZoneId": vault.ID, "shiftTime": "Night",
	}, http.StatusBadRequest, &same)

	var moved assetResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/assets/%d", asset.ID), nil, http.StatusOK, &moved)
	if moved.ZoneID != vault.ID || !moved.IsInRestrictedZone {
		t.Fatalf("asset not in vault: %+v", moved)
	}

	var vaultNow zoneResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/zones/%d", vault.ID), nil, http.StatusOK, &vaultNow)
	if vaultNow.CurrentAssetCount != 1 {
		t.Fatalf("vault count %d, want 1", vaultNow.CurrentAssetCount)
	}

	var alerts []alertResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("/api/alerts?unread=true&assetId=%d", asset.ID), nil, http.StatusOK, &alerts)
	if len(alerts) == 0 {
		t.Fatalf("expected alerts for restricted zone entry")
	}

	var read alertResponse
	doJSON(t, http.MethodPut, fmt.Sprintf("/api/alerts/%d/read", alerts[0].ID), nil, http.StatusOK, &read)
	if !read.IsRead {
		t.Fatalf("alert %d not marked read", read.ID)
	}

	var busy errorResponse
	doJSON(t, http.MethodDelete, fmt.Sprintf("/api/zones/%d", vault.ID), nil, http.StatusConflict, &busy)

	doJSON(t, http.MethodDelete, fmt.Sprintf("/api/assets/%d", asset.ID), nil, http.StatusNoContent, nil)
	doJSON(t, http.MethodDelete, fmt.Sprintf("/api/zones/%d", vault.ID), nil, http.StatusNoContent, nil)
}

// letters renders n with A-J so it satisfies the zone code pattern.
func letters(n int64) string {
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for _, d := range digits {
		b.WriteRune('A' + (d - '0'))
	}
	return b.String()
}
