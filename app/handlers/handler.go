package handlers

import (
	"net/http"

	"github.com/unrolled/render"
)

// message writes the uniform {"message": "..."} error/status envelope.
func message(r *render.Render, w http.ResponseWriter, status int, msg string) {
	_ = r.JSON(w, status, map[string]string{"message": msg})
}
