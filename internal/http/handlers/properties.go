package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/listing"
	"github.com/hongminglow/myrent-be/internal/media"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/models/dto"
	"github.com/hongminglow/myrent-be/internal/storage"
)

const (
	maxImages      = 10
	multipartInMem = 8 << 20
	sniffLen       = 512
	maxPrice       = 1e12 // NUMERIC(14,2) column
)

// PropertyHandler serves listing, search, creation and occupancy updates.
type PropertyHandler struct {
	props         storage.PropertyStore
	media         media.Store
	mediaBaseURL  string
	maxImageBytes int64
}

// NewPropertyHandler constructs the handler. Uploaded images are addressed under mediaBaseURL.
func NewPropertyHandler(props storage.PropertyStore, store media.Store, mediaBaseURL string, maxImageBytes int64) *PropertyHandler {
	return &PropertyHandler{props: props, media: store, mediaBaseURL: mediaBaseURL, maxImageBytes: maxImageBytes}
}

// Register attaches the property routes to the router.
func (h *PropertyHandler) Register(r *mux.Router, gate *middleware.Gate) {
	r.Handle("/api/properties", protect(gate, h.handleCreate, models.RoleLandlord)).Methods(http.MethodPost)
	r.Handle("/api/properties", protect(gate, h.handleList)).Methods(http.MethodGet)
	r.Handle("/api/properties/search", protect(gate, h.handleSearch, models.RoleTenant)).Methods(http.MethodGet)
	r.Handle("/api/properties/{id:[0-9]+}", protect(gate, h.handleGet)).Methods(http.MethodGet)
	r.Handle("/api/properties/{id:[0-9]+}/status", protect(gate, h.handleStatus, models.RoleLandlord)).Methods(http.MethodPatch)
}

func (h *PropertyHandler) handleList(w http.ResponseWriter, r *http.Request) {
	viewer := caller(r)
	where, err := listing.Visibility(viewer)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.writeList(w, r, where, viewer)
}

func (h *PropertyHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	viewer := caller(r)
	filter, err := listing.ParseSearch(r.URL.Query())
	if err != nil {
		respond.Failure(w, err)
		return
	}
	where, err := listing.Search(viewer, filter)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.writeList(w, r, where, viewer)
}

func (h *PropertyHandler) writeList(w http.ResponseWriter, r *http.Request, where listing.Predicate, viewer models.Principal) {
	list, err := h.props.ListProperties(r.Context(), where)
	if err != nil {
		respond.Failure(w, apperr.Internal("failed to fetch properties", err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewProperties(list, viewer))
}

func (h *PropertyHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	viewer := caller(r)
	p, err := h.props.GetProperty(r.Context(), id)
	if err == nil && !listing.CanView(viewer, p) {
		err = storage.ErrNotFound
	}
	if err != nil {
		respond.Failure(w, propertyLookupError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewProperty(p, viewer))
}

func (h *PropertyHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	var req dto.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Failure(w, err)
		return
	}
	if req.IsOccupied == nil {
		respond.Failure(w, apperr.Validation("isOccupied must be a boolean"))
		return
	}
	viewer := caller(r)
	p, err := h.props.GetProperty(r.Context(), id)
	if err != nil {
		respond.Failure(w, propertyLookupError(err))
		return
	}
	if p.LandlordID != viewer.ID {
		respond.Failure(w, apperr.Authorization("you do not own this property"))
		return
	}
	if err := h.props.SetOccupancy(r.Context(), id, *req.IsOccupied); err != nil {
		respond.Failure(w, propertyLookupError(err))
		return
	}
	p.IsOccupied = *req.IsOccupied
	respond.JSON(w, http.StatusOK, "Property status updated", dto.NewProperty(p, viewer))
}

func propertyLookupError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("property not found")
	}
	return apperr.Internal("failed to load property", err)
}

func (h *PropertyHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImages*h.maxImageBytes+multipartInMem)
	if err := r.ParseMultipartForm(multipartInMem); err != nil {
		respond.Failure(w, apperr.Validation("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	np, err := parseNewProperty(r.MultipartForm)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	files := r.MultipartForm.File["images"]
	switch {
	case len(files) == 0:
		respond.Failure(w, apperr.Validation("at least one image is required"))
		return
	case len(files) > maxImages:
		respond.Failure(w, apperr.Validation(fmt.Sprintf("a maximum of %d images is allowed", maxImages)))
		return
	}

	viewer := caller(r)
	np.LandlordID = viewer.ID
	keys := make([]string, 0, len(files))
	for _, fh := range files {
		key, err := h.storeImage(r.Context(), fh)
		if err != nil {
			h.discard(r.Context(), keys)
			respond.Failure(w, err)
			return
		}
		keys = append(keys, key)
		np.ImageURLs = append(np.ImageURLs, media.URL(h.mediaBaseURL, key))
	}

	created, err := h.props.CreateProperty(r.Context(), np)
	if err != nil {
		h.discard(r.Context(), keys)
		if errors.Is(err, storage.ErrNotFound) {
			respond.Failure(w, apperr.Authorization("user no longer exists"))
			return
		}
		respond.Failure(w, apperr.Internal("failed to create property", err))
		return
	}
	respond.JSON(w, http.StatusCreated, "Property listed successfully, pending admin verification.",
		dto.CreatePropertyResponse{ID: created.ID})
}

func parseNewProperty(form *multipart.Form) (models.NewProperty, error) {
	field := func(name string) string {
		if v := form.Value[name]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	np := models.NewProperty{
		Title:                     field("title"),
		Description:               field("description"),
		Location:                  field("location"),
		OwnershipCertificateToken: field("ownershipCertificateToken"),
	}
	price, lease := field("price"), field("leaseDurationMonths")
	if np.Title == "" || np.Description == "" || np.Location == "" || np.OwnershipCertificateToken == "" ||
		price == "" || lease == "" {
		return models.NewProperty{}, apperr.Validation("missing required fields")
	}

	var err error
	np.Price, err = strconv.ParseFloat(price, 64)
	if err != nil || np.Price < 0 || math.IsNaN(np.Price) || math.IsInf(np.Price, 0) {
		return models.NewProperty{}, apperr.Validation("price must be a non-negative number")
	}
	if np.Price >= maxPrice {
		return models.NewProperty{}, apperr.Validation("price must be less than 1000000000000")
	}
	np.LeaseDurationMonths, err = strconv.Atoi(lease)
	if err != nil || np.LeaseDurationMonths <= 0 {
		return models.NewProperty{}, apperr.Validation("leaseDurationMonths must be a positive integer")
	}
	if raw := field("rentExpiryDate"); raw != "" {
		expiry, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return models.NewProperty{}, apperr.Validation("rentExpiryDate must be formatted as YYYY-MM-DD")
		}
		np.RentExpiryDate = &expiry
	}
	return np, nil
}

// storeImage checks the upload is an image by content sniffing and writes it to the media store.
func (h *PropertyHandler) storeImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > h.maxImageBytes {
		return "", apperr.Validation(fmt.Sprintf("image %q exceeds the %d MB limit", fh.Filename, h.maxImageBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Internal("failed to read upload", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, sniffLen)
	head, _ := br.Peek(sniffLen)
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.Validation(fmt.Sprintf("file %q is not an image", fh.Filename))
	}
	key, err := h.media.Put(ctx, media.Upload{Filename: fh.Filename, ContentType: contentType, Body: br})
	if err != nil {
		return "", apperr.Internal("failed to store image", err)
	}
	return key, nil
}

// discard removes uploads of a listing that was not created.
func (h *PropertyHandler) discard(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := h.media.Delete(ctx, key); err != nil {
			log.Printf("discard image %s: %v", key, err)
		}
	}
}
