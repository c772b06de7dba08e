package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shipment-service/internal/database"
	"shipment-service/internal/relations"
	"shipment-service/internal/service"
	"shipment-service/internal/testutil"
	"shipment-service/pkg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app     *fiber.App
	svc     *service.ShipmentService
	user    *models.User
	other   *models.User
	address *models.Address
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newHarness(t *testing.T, ping Pinger) *harness {
	t.Helper()
	ctx := context.Background()

	d, err := database.New(testutil.NewDB(t), relations.Default(), database.SyncOptions{Mode: database.SyncAlter})
	require.NoError(t, err)
	require.NoError(t, d.SyncDatabase(ctx))
	if ping == nil {
		ping = d
	}

	h := &harness{svc: service.NewShipmentService(d)}
	h.user = &models.User{Email: "carol@example.com", Name: "Carol"}
	h.other = &models.User{Email: "dave@example.com", Name: "Dave"}
	require.NoError(t, h.svc.CreateUser(ctx, h.user))
	require.NoError(t, h.svc.CreateUser(ctx, h.other))

	h.address = &models.Address{Street: "2 Quay", City: "Hull", PostalCode: "HU1", Country: "GB"}
	require.NoError(t, h.svc.CreateAddress(ctx, h.user.ID, h.address))
	_, err = h.svc.UpsertSettings(ctx, h.user.ID, &models.SettingsRequest{})
	require.NoError(t, err)
	_, err = h.svc.CreateShipment(ctx, h.user.ID, &models.ShipmentRequest{TrackingNumber: "RM123", Carrier: "royalmail"})
	require.NoError(t, err)

	h.app = NewApp(AppConfig{AllowedOrigins: "http://localhost:3000", StartedAt: time.Now()}, NewShipmentHandler(h.svc), ping)
	return h
}

func (h *harness) do(t *testing.T, method, path string, body string, userID uuid.UUID) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestGetUser_Include(t *testing.T) {
	h := newHarness(t, nil)

	code, body := h.do(t, fiber.MethodGet, "/v1/users/"+h.user.ID.String()+"?include=shipments,settings,addresses", "", h.user.ID)
	require.Equal(t, fiber.StatusOK, code)

	user := body["user"].(map[string]any)
	shipments := user["shipments"].([]any)
	require.Len(t, shipments, 1)
	assert.Equal(t, h.user.ID.String(), shipments[0].(map[string]any)["userId"])
	assert.Equal(t, h.user.ID.String(), user["settings"].(map[string]any)["userId"])
	assert.Len(t, user["addresses"].([]any), 1)
}

func TestGetUser_Errors(t *testing.T) {
	h := newHarness(t, nil)

	code, _ := h.do(t, fiber.MethodGet, "/v1/users/"+h.user.ID.String(), "", uuid.Nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = h.do(t, fiber.MethodGet, "/v1/users/not-a-uuid", "", h.user.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body := h.do(t, fiber.MethodGet, "/v1/users/"+h.user.ID.String()+"?include=owner", "", h.user.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["error"], "unknown association")

	unregistered := uuid.New()
	code, _ = h.do(t, fiber.MethodGet, "/v1/users/"+unregistered.String(), "", unregistered)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestGetShipment_IncludesUser(t *testing.T) {
	h := newHarness(t, nil)

	code, body := h.do(t, fiber.MethodGet, "/v1/users/"+h.user.ID.String()+"/shipments", "", h.user.ID)
	require.Equal(t, fiber.StatusOK, code)
	id := body["shipments"].([]any)[0].(map[string]any)["id"].(string)

	code, body = h.do(t, fiber.MethodGet, "/v1/shipments/"+id, "", h.user.ID)
	require.Equal(t, fiber.StatusOK, code)
	owner := body["shipment"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, h.user.ID.String(), owner["id"])
}

func TestSetPickupAddress(t *testing.T) {
	h := newHarness(t, nil)
	path := "/v1/users/" + h.user.ID.String() + "/settings/pickup-address"

	code, body := h.do(t, fiber.MethodPut, path, `{"address_id":"`+h.address.ID.String()+`"}`, h.user.ID)
	require.Equal(t, fiber.StatusOK, code)
	pickup := body["settings"].(map[string]any)["pickupAddress"].(map[string]any)
	assert.Equal(t, h.address.ID.String(), pickup["id"])

	code, _ = h.do(t, fiber.MethodPut, path, `{"address_id":"`+h.address.ID.String()+`"}`, h.other.ID)
	assert.Equal(t, fiber.StatusForbidden, code)

	otherAddr := &models.Address{Street: "3 Quay", City: "Hull", PostalCode: "HU2", Country: "GB"}
	require.NoError(t, h.svc.CreateAddress(context.Background(), h.other.ID, otherAddr))
	code, _ = h.do(t, fiber.MethodPut, path, `{"address_id":"`+otherAddr.ID.String()+`"}`, h.user.ID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, body = h.do(t, fiber.MethodPut, path, `{"address_id":null}`, h.user.ID)
	require.Equal(t, fiber.StatusOK, code)
	_, hasPickup := body["settings"].(map[string]any)["pickupAddress"]
	assert.False(t, hasPickup)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	code, body := h.do(t, fiber.MethodGet, "/health", "", uuid.Nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "up", body["database"])

	down := newHarness(t, pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	code, body = down.do(t, fiber.MethodGet, "/health", "", uuid.Nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
}

func TestReadRoutes_OwnerOnly(t *testing.T) {
	h := newHarness(t, nil)
	base := "/v1/users/" + h.user.ID.String()

	for _, path := range []string{base, base + "/shipments", base + "/addresses", base + "/settings"} {
		code, _ := h.do(t, fiber.MethodGet, path, "", h.other.ID)
		assert.Equal(t, fiber.StatusForbidden, code, path)

		code, _ = h.do(t, fiber.MethodGet, path, "", h.user.ID)
		assert.Equal(t, fiber.StatusOK, code, path)
	}

	_, body := h.do(t, fiber.MethodGet, base+"/shipments", "", h.user.ID)
	id := body["shipments"].([]any)[0].(map[string]any)["id"].(string)
	code, _ := h.do(t, fiber.MethodGet, "/v1/shipments/"+id, "", h.other.ID)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t, nil)
	caller := uuid.New()

	code, body := h.do(t, fiber.MethodPost, "/v1/users", `{"email":"erin@example.com","name":"Erin"}`, caller)
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, caller.String(), body["user"].(map[string]any)["id"])

	code, _ = h.do(t, fiber.MethodGet, "/v1/users/"+caller.String(), "", caller)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = h.do(t, fiber.MethodPost, "/v1/users", `{"email":"erin2@example.com","name":"Erin"}`, caller)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, "/v1/users", `{"email":"carol@example.com","name":"Carol"}`, uuid.New())
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, "/v1/users", `{"name":"No Email"}`, uuid.New())
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, "/v1/users", `{"email":"x@example.com","name":"X"}`, uuid.Nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestCreateAddress(t *testing.T) {
	h := newHarness(t, nil)
	path := "/v1/users/" + h.user.ID.String() + "/addresses"
	forged := uuid.NewString()

	code, body := h.do(t, fiber.MethodPost, path,
		`{"id":"`+forged+`","label":"Work","street":"8 Dock","city":"Hull","postal_code":"HU3","country":"gb"}`, h.user.ID)
	require.Equal(t, fiber.StatusCreated, code)
	address := body["address"].(map[string]any)
	assert.NotEqual(t, forged, address["id"])
	assert.Equal(t, h.user.ID.String(), address["userId"])
	assert.Equal(t, "GB", address["country"])

	code, _ = h.do(t, fiber.MethodPost, path, `{"street":"8 Dock"}`, h.user.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, path, `{"street":"8 Dock","city":"Hull","postal_code":"HU3","country":"GB"}`, h.other.ID)
	assert.Equal(t, fiber.StatusForbidden, code)

	addresses, err := h.svc.ListAddresses(context.Background(), h.user.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 2)
}

func TestCreateShipment(t *testing.T) {
	h := newHarness(t, nil)
	path := "/v1/users/" + h.user.ID.String() + "/shipments"

	code, body := h.do(t, fiber.MethodPost, path,
		`{"tracking_number":"RM456","carrier":"RoyalMail","tracking_events":[{"status":"picked_up","location":"Hull","timestamp":"2026-10-01T09:00:00Z"}]}`, h.user.ID)
	require.Equal(t, fiber.StatusCreated, code)
	shipment := body["shipment"].(map[string]any)
	assert.Equal(t, h.user.ID.String(), shipment["userId"])
	assert.Equal(t, "royalmail", shipment["carrier"])
	assert.Equal(t, "pending", shipment["status"])

	code, _ = h.do(t, fiber.MethodPost, path, `{"tracking_number":"RM123","carrier":"royalmail"}`, h.user.ID)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, path, `{"carrier":"royalmail"}`, h.user.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, path, `{"tracking_number":"RM789","carrier":"royalmail"}`, h.other.ID)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestUpsertSettings(t *testing.T) {
	h := newHarness(t, nil)
	path := "/v1/users/" + h.other.ID.String() + "/settings"

	code, body := h.do(t, fiber.MethodPut, path, `{"notifications_enabled":false,"units":"imperial"}`, h.other.ID)
	require.Equal(t, fiber.StatusOK, code)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, false, settings["notifications_enabled"])
	assert.Equal(t, "imperial", settings["units"])

	code, body = h.do(t, fiber.MethodPut, path, `{"preferred_carrier":"dpd"}`, h.other.ID)
	require.Equal(t, fiber.StatusOK, code)
	settings = body["settings"].(map[string]any)
	assert.Equal(t, false, settings["notifications_enabled"])
	assert.Equal(t, "imperial", settings["units"])
	assert.Equal(t, "dpd", settings["preferred_carrier"])

	code, _ = h.do(t, fiber.MethodPut, path, `{"units":"cubits"}`, h.other.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPut, path, `{"defaultPickupAddress":"`+h.address.ID.String()+`"}`, h.other.ID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = h.do(t, fiber.MethodPut, path, `{}`, h.user.ID)
	assert.Equal(t, fiber.StatusForbidden, code)
}
