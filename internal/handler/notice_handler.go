package handler

import (
	"net/http"
	"strconv"
	"time"

	"college-library/internal/dto"
	"college-library/internal/model"
	"college-library/internal/service"
	"college-library/pkg/apperror"
	"college-library/pkg/response"
	"college-library/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoticeHandler struct {
	noticeService service.NoticeService
}

func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
	}
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.CreateNoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	recipientIDs := make([]uuid.UUID, 0, len(input.RecipientIDs))
	for _, raw := range input.RecipientIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.ErrInvalidInput)
			return
		}
		recipientIDs = append(recipientIDs, id)
	}

	notice, err := h.noticeService.Create(c.Request.Context(), actorID, input.Title, input.Message, model.RecipientType(input.RecipientType), recipientIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewNoticeView(notice, time.Now()))
}

// SendUserNotice addresses a notice to a single member.
func (h *NoticeHandler) SendUserNotice(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input dto.SendUserNoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	notice, err := h.noticeService.SendToUser(c.Request.Context(), actorID, userID, input.Title, input.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewNoticeView(notice, time.Now()))
}

func (h *NoticeHandler) MyNotices(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notices, err := h.noticeService.FeedFor(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewNoticeViews(notices, time.Now())})
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	noticeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.noticeService.Delete(c.Request.Context(), actorID, noticeID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notice deleted successfully"})
}
