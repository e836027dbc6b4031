package handler

import (
	"net/http"
	"testing"
)

func TestGetUserHidesPassword(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()
	user := env.seedUser(t, "readeruser", false)

	rr := env.do(t, http.MethodGet, "/api/user/profile/"+itoa(user.ID), nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeJSON[map[string]any](t, rr)
	if _, ok := body["password"]; ok {
		t.Fatalf("password must never be returned")
	}
	if body["username"] != "readeruser" {
		t.Fatalf("unexpected payload: %v", body)
	}

	assertErrorBody(t, env.do(t, http.MethodGet, "/api/user/profile/9999", nil, nil), http.StatusNotFound)
	assertErrorBody(t, env.do(t, http.MethodGet, "/api/user/profile/abc", nil, nil), http.StatusBadRequest)
}

func TestUpdateUserOnlySelf(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()
	user := env.seedUser(t, "readeruser", false)
	env.seedUser(t, "adminuser", true)
	env.seedUser(t, "takenname", false)
	session := env.signIn(t, "readeruser")
	target := "/api/user/update/" + itoa(user.ID)

	assertErrorBody(t, env.do(t, http.MethodPut, target, map[string]string{"username": "byadmin1"}, env.signIn(t, "adminuser")), http.StatusForbidden)
	assertErrorBody(t, env.do(t, http.MethodPut, target, map[string]string{"username": "takenname"}, session), http.StatusBadRequest)
	assertErrorBody(t, env.do(t, http.MethodPut, target, map[string]string{"password": "123"}, session), http.StatusBadRequest)

	rr := env.do(t, http.MethodPut, target, map[string]string{"username": "renamed1", "profilePicture": "https://example.com/a.png"}, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	body := decodeJSON[map[string]any](t, rr)
	if body["username"] != "renamed1" || body["profilePicture"] != "https://example.com/a.png" {
		t.Fatalf("unexpected payload: %v", body)
	}
}

func TestDeleteUserSelfOrAdmin(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()
	first := env.seedUser(t, "firstuser", false)
	second := env.seedUser(t, "seconduser", false)
	env.seedUser(t, "adminuser", true)

	firstSession := env.signIn(t, "firstuser")
	assertErrorBody(t, env.do(t, http.MethodDelete, "/api/user/delete/"+itoa(second.ID), nil, firstSession), http.StatusForbidden)

	if rr := env.do(t, http.MethodDelete, "/api/user/delete/"+itoa(first.ID), nil, firstSession); rr.Code != http.StatusOK {
		t.Fatalf("expected self delete to succeed, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/api/user/delete/"+itoa(second.ID), nil, env.signIn(t, "adminuser")); rr.Code != http.StatusOK {
		t.Fatalf("expected admin delete to succeed, got %d", rr.Code)
	}
}

func TestListUsersForAdmin(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()
	env.seedUser(t, "adminuser", true)
	env.seedUser(t, "readeruser", false)

	assertErrorBody(t, env.do(t, http.MethodGet, "/api/user/get-users", nil, env.signIn(t, "readeruser")), http.StatusForbidden)

	rr := env.do(t, http.MethodGet, "/api/user/get-users?limit=1", nil, env.signIn(t, "adminuser"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeJSON[struct {
		Users          []map[string]any `json:"users"`
		TotalUsers     int              `json:"totalUsers"`
		LastMonthUsers int              `json:"lastMonthUsers"`
	}](t, rr)
	if len(body.Users) != 1 || body.TotalUsers != 2 || body.LastMonthUsers != 2 {
		t.Fatalf("unexpected listing: %+v", body)
	}
	if _, ok := body.Users[0]["password"]; ok {
		t.Fatalf("password must never be returned")
	}
}
