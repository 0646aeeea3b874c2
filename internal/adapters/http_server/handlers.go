// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/app"
	"horizon_web/internal/domain"
)

const (
	maxReviewsParam = 50
	maxQuoteBody    = 64 << 10
)

type Handlers struct {
	Acq      *app.Acquirer
	Reviews  app.Settings // place, key and default cap for /v1/reviews
	Quotes   *app.QuoteService
	Throttle *app.Throttle
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

type reviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
	Source  string          `json:"source"`
	Sample  bool            `json:"sample"`
}

type catalogResponse struct {
	Services     []string `json:"services"`
	BudgetRanges []string `json:"budgetRanges"`
	FileTypes    []string `json:"fileTypes"`
	MaxFileBytes int64    `json:"maxFileBytes"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/catalog", h.catalog)
	if h.Throttle != nil {
		s.mux.With(Throttle(h.Throttle)).Post("/v1/quotes", h.createQuote)
	} else {
		s.mux.Post("/v1/quotes", h.createQuote)
	}
	s.mux.Get("/v1/quotes/{id}", h.getQuote)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeTagged writes v as JSON with a weak ETag, or 304 when the client
// already holds that version.
func writeTagged(w http.ResponseWriter, r *http.Request, v any, what string) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msgf("failed to write %s body", what)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	settings := h.Reviews
	if ms := r.URL.Query().Get("max"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 || n > maxReviewsParam {
			writeProblem(w, http.StatusBadRequest, "Invalid max", "max must be an integer between 1 and 50")
			return
		}
		settings.MaxReviews = n
	}

	// one consumer per request; closing it discards anything still in flight
	widget := app.NewWidget(h.Acq, nil)
	defer widget.Close()
	<-widget.Configure(r.Context(), settings)

	st := widget.State()
	if st.Phase != app.Ready {
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "request cancelled before reviews were ready")
		return
	}
	writeTagged(w, r, reviewsResponse{Reviews: st.Reviews, Source: string(st.Source), Sample: st.Sample()}, "listReviews")
}

func (h *Handlers) catalog(w http.ResponseWriter, r *http.Request) {
	writeTagged(w, r, catalogResponse{
		Services:     domain.Services,
		BudgetRanges: domain.BudgetRanges,
		FileTypes:    app.AllowedFileTypes,
		MaxFileBytes: app.MaxUploadBytes,
	}, "catalog")
}

func (h *Handlers) createQuote(w http.ResponseWriter, r *http.Request) {
	var in app.QuoteInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuoteBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		observability.ObserveQuote("invalid")
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a JSON quote request")
		return
	}

	q, err := h.Quotes.Submit(r.Context(), in)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		observability.ObserveQuote("invalid")
		writeProblemBody(w, problem{
			Type:   "about:blank",
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: "one or more fields are invalid",
			Errors: ve.Fields,
		})
		return
	case err != nil:
		observability.ObserveQuote("error")
		log.Error().Err(err).Msg("quote submission failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not save quote request")
		return
	}

	observability.ObserveQuote("created")
	w.Header().Set("Location", "/v1/quotes/"+q.ID)
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handlers) getQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotes.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "quote request not found")
		return
	case err != nil:
		log.Error().Err(err).Msg("quote lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
