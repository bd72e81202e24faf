package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/models"
)

func testClient(t *testing.T, cfg config.StoreConfig, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.APIURL = server.URL
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateOrUpdate(t *testing.T) {
	var gotAuth string
	var gotBody upsertRequest

	client := testClient(t, config.StoreConfig{APIToken: "static-token"}, func(rw http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost || r.URL.Path != "/entities" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(rw).Encode(upsertResponse{
			Entity:  models.Entity{ID: 7, Type: models.EntityTypeWrestler, Name: "Stone Cold Steve Austin", Slug: "stone-cold-steve-austin"},
			Created: true,
		})
	})

	entity, created, err := client.CreateOrUpdate(context.Background(), models.EntityTypeWrestler,
		"Stone Cold Steve Austin", map[string]string{models.FieldDebutYear: "1989"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if entity.ID != 7 {
		t.Errorf("expected entity id 7, got %d", entity.ID)
	}
	if gotAuth != "Bearer static-token" {
		t.Errorf("expected static token auth, got %q", gotAuth)
	}
	if gotBody.Slug != "stone-cold-steve-austin" {
		t.Errorf("expected derived slug, got %q", gotBody.Slug)
	}
	if gotBody.Fields[models.FieldDebutYear] != "1989" {
		t.Errorf("expected fields forwarded, got %v", gotBody.Fields)
	}
}

func TestClientMintsJWT(t *testing.T) {
	var gotAuth string
	client := testClient(t, config.StoreConfig{JWTSecret: "sekrit"}, func(rw http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		rw.Write([]byte(`{"entity":{"id":1},"created":true}`))
	})

	if _, _, err := client.CreateOrUpdate(context.Background(), models.EntityTypeWrestler, "Test", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw := strings.TrimPrefix(gotAuth, "Bearer ")
	if raw == gotAuth {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}

	token, err := jwt.ParseWithClaims(raw, &botClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("sekrit"), nil
	})
	if err != nil {
		t.Fatalf("minted token failed to parse: %v", err)
	}
	claims := token.Claims.(*botClaims)
	if claims.Issuer != "wrestlebot" {
		t.Errorf("expected issuer wrestlebot, got %q", claims.Issuer)
	}
	if claims.Actor != "wrestlebot" {
		t.Errorf("expected actor wrestlebot, got %q", claims.Actor)
	}
}

func TestClientReusesCachedJWT(t *testing.T) {
	client := NewClient(config.StoreConfig{JWTSecret: "sekrit", Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	base := time.Unix(1700000000, 0)
	client.now = func() time.Time { return base }

	first, err := client.authToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client.now = func() time.Time { return base.Add(time.Minute) }
	second, err := client.authToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected cached token within lifetime")
	}

	client.now = func() time.Time { return base.Add(tokenLifetime) }
	third, err := client.authToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third == first {
		t.Error("expected fresh token after expiry")
	}
}

func TestExists(t *testing.T) {
	client := testClient(t, config.StoreConfig{APIToken: "t"}, func(rw http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/known-slug") {
			rw.WriteHeader(http.StatusOK)
			return
		}
		rw.WriteHeader(http.StatusNotFound)
	})

	exists, err := client.Exists(context.Background(), models.EntityTypeWrestler, "known-slug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected known slug to exist")
	}

	exists, err = client.Exists(context.Background(), models.EntityTypeWrestler, "unknown-slug")
	if err != nil {
		t.Fatalf("exists must not error on 404: %v", err)
	}
	if exists {
		t.Error("expected unknown slug to not exist")
	}
}

func TestListNames(t *testing.T) {
	client := testClient(t, config.StoreConfig{APIToken: "t"}, func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entities/promotion/names" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		rw.Write([]byte(`{"names":["WWE","AEW"]}`))
	})

	names, err := client.ListNames(context.Background(), models.EntityTypePromotion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "WWE" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	client := testClient(t, config.StoreConfig{APIToken: "t"}, func(rw http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			rw.WriteHeader(http.StatusBadGateway)
			return
		}
		rw.Write([]byte(`{"entity":{"id":1},"created":false}`))
	})

	_, created, err := client.CreateOrUpdate(context.Background(), models.EntityTypeEvent, "Starrcade", nil)
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if created {
		t.Error("expected created=false")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client := testClient(t, config.StoreConfig{APIToken: "t"}, func(rw http.ResponseWriter, r *http.Request) {
		attempts++
		rw.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, _, err := client.CreateOrUpdate(context.Background(), models.EntityTypeEvent, "Bad Event", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected no retries on 4xx, got %d attempts", attempts)
	}
}
