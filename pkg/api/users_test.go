package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/nimburion/blogapi/pkg/model"
)

type userEnvelope struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

func TestUsers_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/users", nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list body = %s, want []", rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/users", map[string]string{"username": "ada", "email": "ada@example.com"})
	expectStatus(t, rec, http.StatusOK)
	created := decode[userEnvelope](t, rec)
	if created.Message != "New User is created!" {
		t.Errorf("message = %q", created.Message)
	}
	if created.User.ID.IsZero() || created.User.Username != "ada" || created.User.Email != "ada@example.com" {
		t.Fatalf("created user = %+v", created.User)
	}
	if !created.User.CreatedAt.Equal(epoch) {
		t.Errorf("createdAt = %v, want %v", created.User.CreatedAt, epoch)
	}

	rec = env.do(http.MethodGet, "/api/users", nil)
	expectStatus(t, rec, http.StatusOK)
	if users := decode[[]model.User](t, rec); len(users) != 1 || users[0].ID != created.User.ID {
		t.Errorf("users = %+v", users)
	}

	id := created.User.ID.Hex()
	rec = env.do(http.MethodPatch, "/api/users", map[string]string{"userId": id, "newUsername": "lovelace"})
	expectStatus(t, rec, http.StatusOK)
	updated := decode[userEnvelope](t, rec)
	if updated.Message != "User is updated" || updated.User.Username != "lovelace" {
		t.Errorf("update response = %+v", updated)
	}
	if !updated.User.UpdatedAt.After(updated.User.CreatedAt) {
		t.Error("updatedAt should advance on update")
	}

	rec = env.do(http.MethodDelete, "/api/users?userId="+id, nil)
	expectStatus(t, rec, http.StatusOK)
	deleted := decode[map[string]string](t, rec)
	if deleted["message"] != "User is successfully deleted." || deleted["user"] != id {
		t.Errorf("delete response = %v", deleted)
	}

	rec = env.do(http.MethodDelete, "/api/users?userId="+id, nil)
	expectStatus(t, rec, http.StatusNotFound)
	expectMessage(t, rec, "User not found")

	rec = env.do(http.MethodPatch, "/api/users", map[string]string{"userId": id, "newUsername": "again"})
	expectStatus(t, rec, http.StatusNotFound)
	expectMessage(t, rec, "User not found")
}

func TestUsers_BodyValidation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   interface{}
		want   string
	}{
		{"missing username", http.MethodPost, map[string]string{}, "username is required"},
		{"bad email", http.MethodPost, map[string]string{"username": "ada", "email": "not-an-email"}, "email must be a valid email address"},
		{"malformed json", http.MethodPost, `{"username":`, "Invalid request body"},
		{"empty body", http.MethodPost, nil, "Invalid request body"},
		{"patch missing fields", http.MethodPatch, map[string]string{"userId": "65f1c0ffee0000000000abcd"}, "newUsername is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(tt.method, "/api/users", tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
			expectMessage(t, rec, tt.want)
			if env.gateway.calls.Load() != 0 {
				t.Error("invalid body reached the gateway")
			}
		})
	}
}
