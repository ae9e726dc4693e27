package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/middleware"
	"github.com/airvigil/airvigil/internal/testhelpers"
)

func newAdminHandler(t *testing.T) (*AdminHandler, *middleware.APIKeyMiddleware) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)

	// The credential reload path goes through the package-level handle.
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	apiKeyAuth := middleware.NewAPIKeyMiddleware(&middleware.APIKeyConfig{})
	if _, err := database.CreateClient(db, "ingestion-valencia", "key-ingestion"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err := database.CreateClient(db, "notifier", "key-notifier"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := apiKeyAuth.LoadClientsFromDB(); err != nil {
		t.Fatalf("LoadClientsFromDB failed: %v", err)
	}

	return NewAdminHandler(db, apiKeyAuth), apiKeyAuth
}

func TestListClients_HidesKeyMaterial(t *testing.T) {
	handler, _ := newAdminHandler(t)

	ctx := testhelpers.NewHTTPTestContext(t, http.MethodGet, "/admin/clients", nil).
		ExecuteFunc(handler.handleListClients).
		AssertStatus(http.StatusOK).
		AssertBodyContains("ingestion-valencia").
		AssertBodyContains("notifier")

	if body := ctx.Recorder.Body.String(); strings.Contains(body, "key-ingestion") || strings.Contains(body, "key-notifier") {
		t.Error("client listing must never expose API keys")
	}
}

func TestDeactivateClient_RevokesImmediately(t *testing.T) {
	handler, apiKeyAuth := newAdminHandler(t)

	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/admin/clients/deactivate", nil).
		WithJSONBody(DeactivateClientRequest{ServiceName: "notifier"}).
		ExecuteFunc(handler.handleDeactivateClient).
		AssertStatus(http.StatusOK).
		AssertBodyContains(`"status":"deactivated"`)

	// The revoked key must stop working without a restart.
	guarded := apiKeyAuth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/alerts/pending", nil).
		WithAPIKey("key-notifier").
		Execute(guarded).
		AssertStatus(http.StatusUnauthorized)

	// The other credential is untouched.
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/alerts/pending", nil).
		WithAPIKey("key-ingestion").
		Execute(guarded).
		AssertStatus(http.StatusOK)
}

func TestDeactivateClient_RequiresServiceName(t *testing.T) {
	handler, _ := newAdminHandler(t)

	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/admin/clients/deactivate", nil).
		WithJSONBody(DeactivateClientRequest{}).
		ExecuteFunc(handler.handleDeactivateClient).
		AssertStatus(http.StatusUnprocessableEntity)
}
