package validators

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
)

// Int64Param parses a positive int64 path parameter.
func Int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", name))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}
