package http

import (
	"log/slog"
	"net/http"

	"github.com/asqwklop12/sparta/pkg/httputil"
	"github.com/asqwklop12/sparta/pkg/validator"
)

// FolderHandler handles HTTP requests for folder endpoints.
type FolderHandler struct {
	service FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder HTTP handler.
func NewFolderHandler(svc FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{service: svc, logger: logger}
}

// CreateFoldersRequest is the JSON request body for creating folders.
type CreateFoldersRequest struct {
	FolderNames []string `json:"folderNames" validate:"required,min=1,max=20,dive,required,max=50"`
}

// CreateFolders handles POST /api/folders
func (h *FolderHandler) CreateFolders(w http.ResponseWriter, r *http.Request) {
	var req CreateFoldersRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	folders, err := h.service.CreateFolders(r.Context(), callerFrom(r).UserID, req.FolderNames)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, newFolderResponse(f))
	}
	httputil.WriteData(w, http.StatusCreated, out)
}

// ListFolders handles GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.service.ListFolders(r.Context(), callerFrom(r).UserID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, newFolderResponse(f))
	}
	httputil.WriteData(w, http.StatusOK, out)
}
