package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nimburion/blogapi/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	valid := primitive.NewObjectID()
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", valid.Hex(), false},
		{"padded", " " + valid.Hex() + " ", true},
		{"empty", "", true},
		{"too short", "abc", true},
		{"non hex", "zzzzzzzzzzzzzzzzzzzzzzzz", true},
		{"twelve bytes raw", "abcdefghijkl", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseObjectID("userId", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseObjectID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var appErr *AppError
				if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusBadRequest {
					t.Fatalf("expected 400 AppError, got %v", err)
				}
				if appErr.Code != CodeInvalidID {
					t.Errorf("code = %s, want %s", appErr.Code, CodeInvalidID)
				}
				if want := "Invalid or missing userId: " + tt.raw; appErr.Message != want {
					t.Errorf("message = %q, want %q", appErr.Message, want)
				}
				return
			}
			if id != valid {
				t.Errorf("id = %s, want %s", id.Hex(), valid.Hex())
			}
		})
	}
}

func TestParseObjectID_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("only 24 hex characters are accepted", prop.ForAll(
		func(raw string) bool {
			_, err := ParseObjectID("blogId", raw)
			_, hexErr := primitive.ObjectIDFromHex(raw)
			return (err == nil) == (hexErr == nil)
		},
		gen.OneGenOf(gen.AnyString(), gen.RegexMatch("^[0-9a-f]{20,28}$")),
	))

	properties.TestingRun(t)
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	user := &struct{ Name string }{"ada"}

	got, err := Require(ctx, "User", func(context.Context) (*struct{ Name string }, error) {
		return user, nil
	})
	if err != nil || got != user {
		t.Fatalf("Require() = %v, %v", got, err)
	}

	tests := []struct {
		name        string
		lookupErr   error
		wantStatus  int
		wantMessage string
	}{
		{"not found sentinel", repository.ErrNotFound, http.StatusNotFound, "Category not found"},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), repository.ErrNotFound), http.StatusNotFound, "Category not found"},
		{"nil result", nil, http.StatusNotFound, "Category not found"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Error fetching category: connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Require(ctx, "Category", func(context.Context) (*int, error) {
				return nil, tt.lookupErr
			})
			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *AppError, got %v", err)
			}
			if appErr.HTTPStatus != tt.wantStatus || appErr.Message != tt.wantMessage {
				t.Errorf("got %d %q, want %d %q", appErr.HTTPStatus, appErr.Message, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}
