package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-booking/internal/config"
	"rental-booking/internal/db"
	"rental-booking/internal/models"
	"rental-booking/internal/repository"
	"rental-booking/internal/services"

	"github.com/rs/zerolog"
)

type testApp struct {
	t      *testing.T
	router http.Handler
	store  *repository.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dialect, err := db.DialectFor("sqlite")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn, dialect); err != nil {
		t.Fatal(err)
	}

	store := repository.NewStore(conn, dialect)
	cfg := config.Config{
		JWTSecret: "router-test-secret",
		TokenTTL:  time.Hour,
		RateLimit: 1000,
		RateBurst: 1000,
	}
	return &testApp{t: t, router: SetupRouter(store, cfg, zerolog.Nop()), store: store}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (a *testApp) register(username string) string {
	a.t.Helper()
	rec := a.do("POST", "/api/v1/auth/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decode(a.t, rec, &resp)
	return resp.Token
}

func (a *testApp) login(username string) string {
	a.t.Helper()
	rec := a.do("POST", "/api/v1/auth/login", "", map[string]string{"email": username + "@example.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decode(a.t, rec, &resp)
	return resp.Token
}

func (a *testApp) adminToken() string {
	a.t.Helper()
	ctx := context.Background()
	users := services.NewUserService(a.store, zerolog.Nop())
	if _, err := users.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass"); err != nil {
		a.t.Fatal(err)
	}
	rec := a.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "adminpass"})
	if rec.Code != http.StatusOK {
		a.t.Fatalf("admin login: %d %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decode(a.t, rec, &resp)
	return resp.Token
}

// approvedRental walks a property through submission and admin approval.
func (a *testApp) approvedRental(userToken, adminToken string) string {
	a.t.Helper()
	rec := a.do("POST", "/api/v1/properties", userToken, models.PropertyInput{
		Title: "Hill cottage", Description: "Quiet cottage with a garden",
		ContactName: "Nimal", ContactNumber: "0771234567",
		PropertyType: "rent", Price: 95, District: "Nuwara Eliya",
	})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("submit property: %d %s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		Property models.Property `json:"property"`
	}
	decode(a.t, rec, &submitted)

	rec = a.do("PUT", "/api/v1/admin/properties/"+submitted.Property.ID+"/approve", adminToken, nil)
	if rec.Code != http.StatusOK {
		a.t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}
	return submitted.Property.ID
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestRegisterLoginAndBook(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	app.register("nadee")

	rec := app.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "nadee@example.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var login models.AuthResponse
	decode(t, rec, &login)

	auth := services.NewAuthService("router-test-secret", time.Hour, zerolog.Nop())
	actor, err := auth.Actor(login.Token)
	if err != nil {
		t.Fatal(err)
	}
	if actor.UserID != login.User.ID {
		t.Fatalf("token user %q, registered user %q", actor.UserID, login.User.ID)
	}

	propertyID := app.approvedRental(login.Token, admin)

	rec = app.do("POST", "/api/v1/bookings", login.Token, map[string]string{
		"propertyId": propertyID, "startDate": futureDate(10), "endDate": futureDate(14),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	decode(t, rec, &created)
	if created.Booking.UserID != login.User.ID {
		t.Errorf("booking user = %q, want %q", created.Booking.UserID, login.User.ID)
	}
	if created.Booking.Price != 95 {
		t.Errorf("price = %v", created.Booking.Price)
	}

	rec = app.do("POST", "/api/v1/bookings", login.Token, map[string]string{
		"propertyId": propertyID, "startDate": futureDate(12), "endDate": futureDate(16),
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("overlapping booking: status %d, want 409", rec.Code)
	}
	var envelope map[string]string
	decode(t, rec, &envelope)
	if envelope["message"] == "" {
		t.Error("error envelope has no message")
	}

	rec = app.do("GET", "/api/v1/bookings", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var listed struct {
		Bookings []models.Booking `json:"bookings"`
	}
	decode(t, rec, &listed)
	if len(listed.Bookings) != 1 {
		t.Errorf("listed %d bookings", len(listed.Bookings))
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	user := app.register("ruwan")
	propertyID := app.approvedRental(user, admin)

	rec := app.do("POST", "/api/v1/bookings", user, map[string]string{
		"propertyId": propertyID, "startDate": futureDate(3), "endDate": futureDate(5),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	decode(t, rec, &created)
	path := "/api/v1/admin/bookings/" + created.Booking.ID + "/confirm"

	if rec := app.do("PUT", path, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d, want 401", rec.Code)
	}
	if rec := app.do("PUT", path, user, nil); rec.Code != http.StatusForbidden {
		t.Errorf("user token: %d, want 403", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/inquiries/all", user, nil); rec.Code != http.StatusForbidden {
		t.Errorf("inquiries/all as user: %d, want 403", rec.Code)
	}

	rec = app.do("GET", "/api/v1/bookings/"+created.Booking.ID, user, nil)
	var fetched struct {
		Booking models.Booking `json:"booking"`
	}
	decode(t, rec, &fetched)
	if fetched.Booking.Status != "pending" {
		t.Errorf("status after forbidden confirm = %q", fetched.Booking.Status)
	}

	if rec := app.do("PUT", path, admin, nil); rec.Code != http.StatusOK {
		t.Errorf("admin confirm: %d %s", rec.Code, rec.Body.String())
	}
}

func TestOtherUsersBookingIsNotFound(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	owner := app.register("owner")
	other := app.register("other")
	propertyID := app.approvedRental(owner, admin)

	rec := app.do("POST", "/api/v1/bookings", owner, map[string]string{
		"propertyId": propertyID, "startDate": futureDate(3), "endDate": futureDate(5),
	})
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	decode(t, rec, &created)
	path := "/api/v1/bookings/" + created.Booking.ID

	if rec := app.do("DELETE", path, other, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete by other: %d, want 404", rec.Code)
	}
	rec = app.do("PUT", path, other, map[string]string{"startDate": futureDate(6), "endDate": futureDate(7)})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update by other: %d, want 404", rec.Code)
	}
	if rec := app.do("DELETE", path, owner, nil); rec.Code != http.StatusOK {
		t.Errorf("delete by owner: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPublicCatalogAndHealth(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do("GET", "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health: %d", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/properties", "", nil); rec.Code != http.StatusOK {
		t.Errorf("catalog: %d", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/properties?minPrice=abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad minPrice: %d, want 400", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/properties/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing property: %d, want 404", rec.Code)
	}
	if rec := app.do("POST", "/api/v1/properties", "", map[string]string{"title": "x"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous submit: %d, want 401", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/bookings", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d, want 401", rec.Code)
	}
}

func TestUserProfiles(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	token := app.register("sahan")
	app.register("kasun")

	rec := app.do("GET", "/api/v1/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me models.User
	decode(t, rec, &me)
	if me.Username != "sahan" || me.Role != "user" {
		t.Errorf("me = %+v", me)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("profile leaks password hash")
	}

	var kasun models.User
	rec = app.do("GET", "/api/v1/users/me", app.login("kasun"), nil)
	decode(t, rec, &kasun)

	if rec := app.do("GET", "/api/v1/users/"+kasun.ID, token, nil); rec.Code != http.StatusForbidden {
		t.Errorf("other profile as user: %d, want 403", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/users/"+kasun.ID, admin, nil); rec.Code != http.StatusOK {
		t.Errorf("other profile as admin: %d", rec.Code)
	}
	if rec := app.do("GET", "/api/v1/users/missing", admin, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing profile: %d, want 404", rec.Code)
	}
}

func TestInquiryFlow(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	user := app.register("dilani")
	propertyID := app.approvedRental(user, admin)

	rec := app.do("POST", "/api/v1/bookings", user, map[string]interface{}{
		"propertyId": propertyID, "startDate": futureDate(20), "endDate": futureDate(22),
		"contact": models.ContactDetails{
			FirstName: "Dilani", LastName: "Perera", Email: "dilani@example.com",
			Phone: "0711111111", Age: 29, Address: "12 Lake Rd, Kandy", NIC: "952341234V",
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	decode(t, rec, &created)

	rec = app.do("POST", "/api/v1/inquiries", user, map[string]string{"bookingId": created.Booking.ID, "message": "Is parking available?"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit inquiry: %d %s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		Inquiry models.Inquiry `json:"inquiry"`
	}
	decode(t, rec, &submitted)

	rec = app.do("PUT", "/api/v1/inquiries/"+submitted.Inquiry.ID+"/respond", admin, map[string]string{"response": "Yes, two spaces."})
	if rec.Code != http.StatusOK {
		t.Fatalf("respond: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.do("GET", "/api/v1/inquiries", user, nil)
	var own struct {
		Inquiries []models.Inquiry `json:"inquiries"`
	}
	decode(t, rec, &own)
	if len(own.Inquiries) != 1 || own.Inquiries[0].Status != "responded" {
		t.Errorf("own inquiries = %+v", own.Inquiries)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code >= 300 {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("simple request Access-Control-Allow-Origin = %q", got)
	}
}
