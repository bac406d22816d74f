package questions

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/shared/server/middleware"
	"clauselens-backend/internal/shared/server/respond"
)

const (
	maxBodyBytes = 16 << 20

	msgMissingField   = "Both 'question' and 'context' are required."
	msgBlankQuestion  = "Question must not be empty."
	msgInvalidBody    = "Request body must be a JSON object."
	msgContextTooLong = "Document context is too long."
	msgAskFailed      = "Failed to answer question."
)

// Handler wires HTTP handlers to the questions service.
type Handler struct {
	Svc             *Service
	MaxContextChars int
}

// NewHandler constructs a Handler. maxContextChars <= 0 disables the context limit.
func NewHandler(svc *Service, maxContextChars int) *Handler {
	return &Handler{Svc: svc, MaxContextChars: maxContextChars}
}

// RegisterRoutes attaches question routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/askQuestion", h.askQuestion)
}

// Pointers distinguish an absent field from an empty one.
type askRequest struct {
	Question *string `json:"question"`
	Context  *string `json:"context"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) askQuestion(c *gin.Context) {
	c.Set(middleware.ProviderKey, h.Svc.Provider)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, msgContextTooLong, err)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeInvalidBody, msgInvalidBody, err)
		return
	}
	if req.Question == nil || req.Context == nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeMissingField, msgMissingField, nil)
		return
	}
	if strings.TrimSpace(*req.Question) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeMissingField, msgBlankQuestion, nil)
		return
	}
	if h.MaxContextChars > 0 && utf8.RuneCountInString(*req.Context) > h.MaxContextChars {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, msgContextTooLong, nil)
		return
	}

	answer, err := h.Svc.Ask(c.Request.Context(), *req.Question, *req.Context)
	if err != nil {
		if errors.Is(err, llm.ErrCompletionFailed) {
			respond.Error(c, http.StatusInternalServerError, respond.CodeProviderFailure, msgAskFailed, err)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgAskFailed, err)
		return
	}

	respond.JSON(c, http.StatusOK, askResponse{Answer: answer})
}
