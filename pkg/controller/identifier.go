package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nimburion/blogapi/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID validates an identifier taken from the query, path or body.
//
// Cosa fa: accetta solo 24 caratteri esadecimali e restituisce l'ObjectID.
// Cosa NON fa: non interroga il database; un id valido può comunque non esistere.
//
// Esempio minimo:
//
//	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
//	if err != nil {
//		return controller.Error(c, err)
//	}
func ParseObjectID(name, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, NewInvalidIDError(fmt.Sprintf("Invalid or missing %s: %s", name, raw))
	}
	return id, nil
}

// Require runs one existence lookup. A nil result or repository.ErrNotFound
// becomes a 404 "<name> not found"; any other failure becomes a 500.
func Require[T any](ctx context.Context, name string, lookup func(ctx context.Context) (*T, error)) (*T, error) {
	found, err := lookup(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewNotFoundError(name + " not found")
	case err != nil:
		return nil, Internal("Error fetching "+strings.ToLower(name), err)
	case found == nil:
		return nil, NewNotFoundError(name + " not found")
	}
	return found, nil
}
