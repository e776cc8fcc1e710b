package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type createUserDTO struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type patchDTO struct {
	Title *string `json:"title,omitempty"`
}

func (p patchDTO) Validate() error {
	if p.Title == nil {
		return errors.New("at least one field is required")
	}
	return nil
}

type appErrDTO struct{}

func (appErrDTO) Validate() error {
	return NewNotFoundError("custom")
}

func TestValidateDTO(t *testing.T) {
	title := "x"
	tests := []struct {
		name        string
		dto         interface{}
		wantErr     bool
		wantMessage string
		wantStatus  int
		wantCode    string
	}{
		{name: "nil dto", dto: nil, wantErr: true, wantMessage: "Invalid request body", wantStatus: http.StatusBadRequest, wantCode: CodeInvalidBody},
		{name: "nil pointer", dto: (*createUserDTO)(nil), wantErr: true, wantMessage: "Invalid request body", wantStatus: http.StatusBadRequest, wantCode: CodeInvalidBody},
		{name: "valid", dto: &createUserDTO{Username: "ada"}},
		{name: "valid with email", dto: &createUserDTO{Username: "ada", Email: "ada@example.com"}},
		{name: "missing username", dto: &createUserDTO{}, wantErr: true, wantMessage: "username is required", wantStatus: http.StatusBadRequest, wantCode: CodeValidationFailed},
		{name: "bad email", dto: &createUserDTO{Username: "ada", Email: "nope"}, wantErr: true, wantMessage: "email must be a valid email address", wantStatus: http.StatusBadRequest},
		{name: "custom validator fails", dto: patchDTO{}, wantErr: true, wantMessage: "at least one field is required", wantStatus: http.StatusBadRequest},
		{name: "custom validator passes", dto: patchDTO{Title: &title}},
		{name: "custom app error preserved", dto: appErrDTO{}, wantErr: true, wantMessage: "custom", wantStatus: http.StatusNotFound},
		{name: "non struct", dto: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDTO(tt.dto)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDTO() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMessage)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
			if tt.wantCode != "" && appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestValidateDTO_DetailsUseJSONNames(t *testing.T) {
	err := ValidateDTO(&createUserDTO{Email: "bad"})
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %v", err)
	}
	if appErr.Details["username"] != "required" || appErr.Details["email"] != "email" {
		t.Errorf("details = %v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "; ") {
		t.Errorf("expected both messages joined, got %q", appErr.Message)
	}
}

func TestBindAndValidate(t *testing.T) {
	t.Run("bind failure", func(t *testing.T) {
		c := newMockContext(httptest.NewRequest(http.MethodPost, "/api/users", nil))
		c.bindErr = errors.New("unexpected EOF")

		err := BindAndValidate(c, &createUserDTO{})
		var appErr *AppError
		if !errors.As(err, &appErr) || appErr.Message != "Invalid request body" {
			t.Fatalf("BindAndValidate() = %v", err)
		}
		if appErr.Code != CodeInvalidBody || appErr.HTTPStatus != http.StatusBadRequest {
			t.Errorf("got code=%s status=%d, want %s/400", appErr.Code, appErr.HTTPStatus, CodeInvalidBody)
		}
		if !errors.Is(err, c.bindErr) {
			t.Error("decode error should be kept as cause")
		}
	})

	t.Run("body over limit", func(t *testing.T) {
		c := newMockContext(httptest.NewRequest(http.MethodPost, "/api/users", nil))
		c.bindErr = &http.MaxBytesError{Limit: 16}

		err := BindAndValidate(c, &createUserDTO{})
		var appErr *AppError
		if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusRequestEntityTooLarge {
			t.Fatalf("BindAndValidate() = %v, want 413", err)
		}
		if appErr.Details["max_size"] != int64(16) {
			t.Errorf("details = %v", appErr.Details)
		}
	})

	t.Run("bind then validate", func(t *testing.T) {
		c := newMockContext(httptest.NewRequest(http.MethodPost, "/api/users", nil))
		c.bindFn = func(v interface{}) error {
			v.(*createUserDTO).Username = "ada"
			return nil
		}
		dto := &createUserDTO{}
		if err := BindAndValidate(c, dto); err != nil {
			t.Fatalf("BindAndValidate() = %v", err)
		}
		if dto.Username != "ada" {
			t.Errorf("dto not populated: %+v", dto)
		}
	})
}
