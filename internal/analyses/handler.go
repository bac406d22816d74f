package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/extract"
	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/shared/server/middleware"
	"clauselens-backend/internal/shared/server/respond"
	"clauselens-backend/internal/shared/util"
)

const (
	formField            = "document"
	defaultMaxUploadSize = 10 << 20 // 10MB
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

// NewHandler constructs a Handler. maxUploadSize <= 0 means 10MB.
func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadSize: maxUploadSize}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/analyzeDocument", h.analyzeDocument)
}

func (h *Handler) analyzeDocument(c *gin.Context) {
	c.Set(middleware.ProviderKey, h.Svc.Provider)
	if c.Request.ContentLength > h.MaxUploadSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, msgTooLarge, nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, msgTooLarge, err)
			return
		}
		if errors.Is(err, http.ErrMissingFile) && hasEmptyFilePart(c) {
			respond.Error(c, http.StatusBadRequest, respond.CodeEmptyFilename, msgEmptyFilename, nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeMissingFile, msgMissingFile, err)
		return
	}
	c.Set(middleware.FileNameKey, util.LogFileName(fileHeader.Filename))

	if strings.TrimSpace(fileHeader.Filename) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeEmptyFilename, msgEmptyFilename, nil)
		return
	}
	if !extract.Supported(fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, respond.CodeUnsupportedFileType, msgUnsupportedType, nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeUnreadableFile, msgUnreadableFile, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeUnreadableFile, msgUnreadableFile, err)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, respond.CodeUnsupportedFileType, msgUnsupportedType, err)
		case errors.Is(err, extract.ErrUnreadablePDF), errors.Is(err, extract.ErrEmptyDocument):
			respond.Error(c, http.StatusBadRequest, respond.CodeUnreadableFile, msgUnreadableFile, err)
		case errors.Is(err, llm.ErrCompletionFailed):
			respond.Error(c, http.StatusInternalServerError, respond.CodeProviderFailure, msgAnalyzeFailed, err)
		case errors.Is(err, ErrUnparseableResponse):
			respond.Error(c, http.StatusInternalServerError, respond.CodeUnparseableResponse, msgAnalyzeFailed, err)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgAnalyzeFailed, err)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

// multipart does not always preserve the *http.MaxBytesError in its chain.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// A file input submitted with no selection arrives as a part with an empty
// filename, which multipart files under form values rather than files.
func hasEmptyFilePart(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value[formField]
	return ok
}
