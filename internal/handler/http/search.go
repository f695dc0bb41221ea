package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/asqwklop12/sparta/pkg/httputil"
)

// SearchHandler passes shopping searches through to the lookup API.
type SearchHandler struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(searcher Searcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// SearchItemResponse is one shopping search result.
type SearchItemResponse struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LowestPrice int    `json:"lowestPrice"`
}

// Search handles GET /api/search?query=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "query is required"},
		})
		return
	}

	items, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]SearchItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SearchItemResponse{
			Title:       it.Title,
			Link:        it.Link,
			Image:       it.Image,
			LowestPrice: it.LowestPrice,
		})
	}
	httputil.WriteData(w, http.StatusOK, out)
}
