package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/database/dbtest"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"golang.org/x/oauth2"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type session struct {
	User struct {
		ID uint `json:"id"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		AccessTokenSecret:  "access",
		RefreshTokenSecret: "refresh",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    time.Hour,
		StorageTimeout:     5 * time.Second,
	}
}

func call[T any](t *testing.T, client *http.Client, method, url string, body any) (int, envelope[T]) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp.StatusCode, env
}

func bearerClient(token string) *http.Client {
	return oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	srv := New(testConfig(), dbtest.Open(t))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	anon := ts.Client()

	status, a := call[session](t, anon, http.MethodPost, ts.URL+"/users/register", map[string]string{
		"name": "Alice", "email": "alice@college.edu", "password": "student123",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on signup, got %d (%s)", status, a.Message)
	}
	status, b := call[session](t, anon, http.MethodPost, ts.URL+"/users/register", map[string]string{
		"name": "Bob", "email": "bob@college.edu", "password": "admin123",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on signup, got %d (%s)", status, b.Message)
	}
	if _, err := srv.Users.SetRole(context.Background(), "bob@college.edu", models.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}

	alice := bearerClient(a.Data.AccessToken)
	bob := bearerClient(b.Data.AccessToken)

	type eventView struct {
		ID                 uint  `json:"id"`
		TotalRegistrations int64 `json:"total_registrations"`
	}
	status, created := call[eventView](t, bob, http.MethodPost, ts.URL+"/events", map[string]string{
		"title": "Hackathon", "description": "24h build", "date": "2025-12-15", "time": "10:00 AM", "venue": "Lab A",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 creating event, got %d (%s)", status, created.Message)
	}
	eventID := created.Data.ID

	status, _ = call[eventView](t, alice, http.MethodPost, ts.URL+"/events", map[string]string{
		"title": "Nope", "description": "d", "date": "2025-12-15", "time": "t", "venue": "v",
	})
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for student creating event, got %d", status)
	}

	registerURL := fmt.Sprintf("%s/registrations/register/%d", ts.URL, eventID)
	status, reg := call[json.RawMessage](t, alice, http.MethodPost, registerURL, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on first registration, got %d (%s)", status, reg.Message)
	}

	type check struct {
		Registered bool `json:"registered"`
	}
	status, chk := call[check](t, alice, http.MethodGet, fmt.Sprintf("%s/registrations/check/%d", ts.URL, eventID), nil)
	if status != http.StatusOK || !chk.Data.Registered {
		t.Errorf("expected registered=true, got %d %+v", status, chk.Data)
	}

	status, dup := call[json.RawMessage](t, alice, http.MethodPost, registerURL, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate registration, got %d", status)
	}
	if dup.Success || dup.Code != "already_registered" {
		t.Errorf("unexpected duplicate envelope: %+v", dup)
	}

	type registrant struct {
		UserID uint   `json:"user_id"`
		Email  string `json:"email"`
	}
	status, list := call[[]registrant](t, bob, http.MethodGet, fmt.Sprintf("%s/registrations/admin/%d", ts.URL, eventID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing registrants, got %d (%s)", status, list.Message)
	}
	if len(list.Data) != 1 || list.Data[0].UserID != a.Data.User.ID {
		t.Errorf("expected exactly one entry for alice, got %+v", list.Data)
	}

	type stat struct {
		EventID            uint  `json:"event_id"`
		TotalRegistrations int64 `json:"total_registrations"`
	}
	status, _ = call[[]stat](t, alice, http.MethodGet, ts.URL+"/events/admin/stats/all", nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for student stats, got %d", status)
	}
	status, stats := call[[]stat](t, bob, http.MethodGet, ts.URL+"/events/admin/stats/all", nil)
	if status != http.StatusOK || len(stats.Data) != 1 || stats.Data[0].TotalRegistrations != 1 {
		t.Errorf("expected one event with one registration, got %d %+v", status, stats.Data)
	}

	status, got := call[eventView](t, anon, http.MethodGet, fmt.Sprintf("%s/events/%d", ts.URL, eventID), nil)
	if status != http.StatusOK || got.Data.TotalRegistrations != 1 {
		t.Errorf("expected derived total of 1, got %d %+v", status, got.Data)
	}

	status, _ = call[json.RawMessage](t, bob, http.MethodDelete, fmt.Sprintf("%s/events/%d", ts.URL, eventID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 deleting event, got %d", status)
	}

	status, mine := call[[]json.RawMessage](t, alice, http.MethodGet, ts.URL+"/registrations/my", nil)
	if status != http.StatusOK || len(mine.Data) != 0 {
		t.Errorf("expected no registrations after delete, got %d %d", status, len(mine.Data))
	}
	status, all := call[[]eventView](t, anon, http.MethodGet, ts.URL+"/events", nil)
	if status != http.StatusOK || len(all.Data) != 0 {
		t.Errorf("expected empty catalogue, got %d %+v", status, all.Data)
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := testConfig()
	srv := New(cfg, dbtest.Open(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
