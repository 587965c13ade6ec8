package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. Authentication
// and authorization failures keep their stable, generic messages; anything
// unrecognized becomes an opaque 500.
func RespondError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusBadRequest, "Invalid Credentials", shared.ErrInvalidCredentials.Error())
	case errors.Is(err, shared.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrUnauthenticated.Error())
	case errors.Is(err, shared.ErrInactiveAccount):
		Problem(w, http.StatusBadRequest, "Inactive User", shared.ErrInactiveAccount.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", shared.ErrForbidden.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.ErrNotFound.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", shared.ErrDuplicate.Error())
	case errors.Is(err, shared.ErrInvalidRoleHierarchy):
		Problem(w, http.StatusConflict, "Invalid Role Hierarchy", shared.ErrInvalidRoleHierarchy.Error())
	case errors.Is(err, shared.ErrRoleInUse):
		Problem(w, http.StatusConflict, "Role In Use", shared.ErrRoleInUse.Error())
	case errors.As(err, &validationErrs):
		Problem(w, http.StatusBadRequest, "Validation Failed", validationErrs.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
