package handler

import (
	"net/http"
	"time"

	"college-library/internal/dto"
	"college-library/internal/service"
	"college-library/pkg/response"
	"college-library/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ExtensionHandler struct {
	extensionService service.ExtensionService
}

func NewExtensionHandler(extensionService service.ExtensionService) *ExtensionHandler {
	return &ExtensionHandler{
		extensionService: extensionService,
	}
}

func (h *ExtensionHandler) RequestExtension(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	loanID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input dto.RequestExtensionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	req, err := h.extensionService.Request(c.Request.Context(), userID, loanID, input.Reason, input.RequestedDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewExtensionView(req, time.Now()))
}

func (h *ExtensionHandler) DecideExtension(c *gin.Context) {
	adminID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input dto.DecideExtensionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	req, err := h.extensionService.Decide(c.Request.Context(), adminID, requestID, input.Action, input.AdminResponse)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExtensionView(req, time.Now()))
}

func (h *ExtensionHandler) PendingExtensions(c *gin.Context) {
	reqs, err := h.extensionService.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewExtensionViews(reqs, time.Now())})
}

func (h *ExtensionHandler) AllExtensions(c *gin.Context) {
	reqs, err := h.extensionService.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewExtensionViews(reqs, time.Now())})
}
