package handler

import (
	"log/slog"
	"net/http"

	"stash/internal/httputil"
	"stash/internal/service"
)

// FileHandler handles file upload and deletion requests.
type FileHandler struct {
	fileService    *service.FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler.
func NewFileHandler(fileService *service.FileService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload stores an uploaded file inside a folder. The request is multipart
// form data with a folderId field and a file part.
// POST /folder/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	folderID := r.FormValue("folderId")
	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "folderId and file are required")
		return
	}
	defer part.Close()

	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folderId and file are required")
		return
	}

	file, err := h.fileService.Upload(r.Context(), userID, folderID, header.Filename, part)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, idResponse{ID: file.ID})
}

// Delete removes a file.
// DELETE /folder/files/{fileId}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("fileId")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file id is required")
		return
	}

	if err := h.fileService.Delete(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, idResponse{ID: id})
}
