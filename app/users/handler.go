package users

import (
	"context"
	"net/http"

	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
)

type UserProvider interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

type UserHandler struct {
	repo UserProvider
}

func NewUserHandler(r UserProvider) *UserHandler {
	return &UserHandler{repo: r}
}

// HandleGetCurrent syncs the caller's profile from their token claims and
// returns the stored row.
func (h *UserHandler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apperrors.Write(w, r, apperrors.Unauthorized("Unauthorized"), "")
		return
	}

	user := &models.User{
		ID:              claims.Subject,
		Email:           optional(claims.Email),
		FirstName:       optional(claims.GivenName),
		LastName:        optional(claims.FamilyName),
		ProfileImageURL: optional(claims.Picture),
	}
	if err := h.repo.UpsertUser(r.Context(), user); err != nil {
		apperrors.Write(w, r, err, "Failed to fetch user")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewUser(*user))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
