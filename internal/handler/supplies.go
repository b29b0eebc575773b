package handler

import (
	"io"
	"net/http"

	"stocktrack/internal/apierror"
	"stocktrack/internal/dto"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 10 << 20 // per file
)

type SuppliesHandler struct{ svc service.SupplyService }

func NewSuppliesHandler(svc service.SupplyService) *SuppliesHandler {
	return &SuppliesHandler{svc: svc}
}

func (h *SuppliesHandler) Create(c *gin.Context) {
	var req dto.CreateSupplyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req, actorFromClaims(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuppliesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliesHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupplyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadFiles accepts up to maxUploadFiles multipart attachments under the
// "files" field and stores each one against the supply document.
func (h *SuppliesHandler) UploadFiles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Multipart form expected"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("No files provided"))
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, apierror.New("Too many files: at most 10 per upload"))
		return
	}

	out := make([]dto.SupplyFileResponse, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("File exceeds 10 MB limit: "+fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Cannot read file: "+fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Cannot read file: "+fh.Filename))
			return
		}

		resp, err := h.svc.AttachFile(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out = append(out, *resp)
	}
	c.JSON(http.StatusCreated, out)
}

func (h *SuppliesHandler) DownloadFile(c *gin.Context) {
	supplyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseID(c, "fileId")
	if !ok {
		return
	}
	file, path, err := h.svc.OpenFile(c.Request.Context(), supplyID, fileID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, file.FileName)
}

func (h *SuppliesHandler) DeleteFile(c *gin.Context) {
	supplyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseID(c, "fileId")
	if !ok {
		return
	}
	if err := h.svc.DeleteFile(c.Request.Context(), supplyID, fileID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
