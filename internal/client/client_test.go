package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamecafe-pos/internal/client"
	"gamecafe-pos/internal/config"
	"gamecafe-pos/internal/models"
)

func newClient(url, token string) *client.Client {
	return client.New(&config.Config{ServerURL: url, AdminToken: token})
}

func TestListGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/games" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.Game{
			{Name: "PS5", PricePerHour: 100, RequiresControllers: true},
		})
	}))
	defer srv.Close()

	games, err := newClient(srv.URL, "").ListGames(context.Background())
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(games) != 1 || games[0].Name != "PS5" {
		t.Errorf("unexpected games: %+v", games)
	}
}

func TestDomainErrorOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with an error field is still a domain failure
		json.NewEncoder(w).Encode(map[string]string{"error": "Station A is occupied"})
	}))
	defer srv.Close()

	err := newClient(srv.URL, "").StartSession(context.Background(), models.StartSessionRequest{
		Mobile: "9998887776", Station: "A", Game: "PS5",
	})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Station A is occupied" {
		t.Errorf("error message must be verbatim, got %q", apiErr.Message)
	}
}

func TestDomainErrorOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Station B is occupied"})
	}))
	defer srv.Close()

	err := newClient(srv.URL, "").StartSession(context.Background(), models.StartSessionRequest{
		Mobile: "9998887776", Station: "B", Game: "PS5",
	})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Station B is occupied" {
		t.Fatalf("expected verbatim APIError, got %v", err)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newClient(srv.URL, "").ListSessions(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		t.Error("transport failures must not masquerade as domain errors")
	}
}

func TestNonJSONBodyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL, "").ListGames(context.Background()); err == nil {
		t.Fatal("non-JSON body should fail to decode")
	}
}

func TestEndSessionDecodesInvoiceAndReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.EndSessionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.SessionID != "sess-1" || req.FoodCost != 50 || !req.UseWallet {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"invoice": models.Invoice{Mobile: "9998887776", TotalDue: 100, RemainingWallet: 405},
			"pdf":     "/invoices/abc.html",
		})
	}))
	defer srv.Close()

	result, err := newClient(srv.URL, "").EndSession(context.Background(), models.EndSessionRequest{
		SessionID: "sess-1", FoodCost: 50, UseWallet: true,
	})
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if result.Invoice.RemainingWallet != 405 {
		t.Errorf("invoice not decoded: %+v", result.Invoice)
	}
	if result.ReceiptURL != "/invoices/abc.html" {
		t.Errorf("receipt url not decoded: %q", result.ReceiptURL)
	}
}

func TestUpdateGamePriceSendsAdminToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer admin-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req models.UpdatePriceRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Name != "Chess" || req.PricePerHour != 150 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	if err := newClient(srv.URL, "admin-token").UpdateGamePrice(context.Background(), "Chess", 150); err != nil {
		t.Fatalf("UpdateGamePrice failed: %v", err)
	}
}
