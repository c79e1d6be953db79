// README: Load handlers for add/upload/delete.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"loadrec/internal/excel"
	"loadrec/internal/modules/load"
)

// maxUploadBytes caps spreadsheet uploads.
const maxUploadBytes = 10 << 20

type LoadHandler struct {
	loads *load.Service
}

func NewLoadHandler(svc *load.Service) *LoadHandler {
	return &LoadHandler{loads: svc}
}

// Add handles POST /api/v1/load/add-load.
func (h *LoadHandler) Add(c *gin.Context) {
	var cmd load.AddCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	l, err := h.loads.Add(c.Request.Context(), cmd)
	if err != nil {
		writeLoadError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"status":  true,
		"message": "Load added successfully",
		"load":    l,
	})
}

// Upload handles POST /api/v1/load/upload with a multipart "file" (.xlsx).
func (h *LoadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "a multipart 'file' field is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		writeError(c, http.StatusBadRequest, "only .xlsx files are supported")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()

	rows, err := excel.ReadRows(f)
	if err != nil {
		log.Warn().Err(err).Str("file", fh.Filename).Msg("spreadsheet rejected")
		if errors.Is(err, excel.ErrNoSheet) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusBadRequest, "invalid spreadsheet")
		return
	}

	report, err := h.loads.Import(c.Request.Context(), rows)
	if err != nil {
		writeLoadError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}

// Delete handles DELETE /api/v1/delete-load/loads/:load_id.
func (h *LoadHandler) Delete(c *gin.Context) {
	id := c.Param("load_id")
	err := h.loads.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, load.ErrNotFound):
		writeError(c, http.StatusNotFound, fmt.Sprintf("Load with ID '%s' not found.", id))
		return
	case err != nil:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "An internal server error occurred during load deletion.")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Load with ID '%s' successfully deleted.", id)})
}
