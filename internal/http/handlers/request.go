package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/models"
)

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON payload")
	}
	return nil
}

// caller is the principal stored by the access gate.
func caller(r *http.Request) models.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, apperr.Validation(name + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return id, nil
}

func protect(gate *middleware.Gate, fn http.HandlerFunc, roles ...models.Role) http.Handler {
	return gate.Require(roles...)(fn)
}
