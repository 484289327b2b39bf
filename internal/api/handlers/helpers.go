package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/utils"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *errors.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.BadRequest("Invalid request body")
	}
	return nil
}

// writeAppError writes err as an AppError, wrapping unknown errors as internal
func writeAppError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := errors.As(err); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(fallback, err))
}
