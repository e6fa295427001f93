// handlers_upload.go - Stored log file handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/storage"
)

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	store         storage.Store
	allowDeletion bool
}

// NewFileHandler creates a new file handler instance
func NewFileHandler(store storage.Store, allowDeletion bool) FileHandler {
	return &FileHandlerImpl{
		store:         store,
		allowDeletion: allowDeletion,
	}
}

// HandleUploadFile accepts a multipart log upload (field "file")
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, src)
	if err != nil {
		return newStorageError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleGetRecentFiles returns the most recently uploaded files
func (h *FileHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	files, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, files)
}

// HandleDeleteFile removes a stored file
func (h *FileHandlerImpl) HandleDeleteFile(c echo.Context) error {
	if !h.allowDeletion {
		return echo.NewHTTPError(http.StatusForbidden, "file deletion is disabled")
	}

	id := c.Param("id")
	if _, err := h.store.Get(id); err != nil {
		return NewNotFoundError("file", id)
	}
	if err := h.store.Delete(id); err != nil {
		return NewInternalError("failed to delete file", err)
	}
	return c.NoContent(http.StatusNoContent)
}
