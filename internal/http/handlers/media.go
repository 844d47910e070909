package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/media"
)

// MediaHandler serves stored property images.
type MediaHandler struct {
	store media.Store
}

// NewMediaHandler creates a handler reading from store.
func NewMediaHandler(store media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Register wires the public image route.
func (h *MediaHandler) Register(r *mux.Router) {
	r.HandleFunc("/media/{key}", h.handle).Methods(http.MethodGet)
}

func (h *MediaHandler) handle(w http.ResponseWriter, r *http.Request) {
	obj, err := h.store.Open(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "image not found")
			return
		}
		log.Printf("open image: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load image")
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, obj.Body); err != nil {
		log.Printf("stream image: %v", err)
	}
}
