package handler

import (
	"net/http"

	"college-library/internal/dto"
	"college-library/internal/service"
	"college-library/pkg/response"
	"college-library/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// ListUsers supports an optional ?q= search over name, PRN and email.
func (h *MemberHandler) ListUsers(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.memberService.Users(c.Request.Context(), actorID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *MemberHandler) ListStudents(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	students, err := h.memberService.Students(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": students})
}

func (h *MemberHandler) AddStudent(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.AddStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	student, password, err := h.memberService.AddStudent(c.Request.Context(), actorID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MemberResponse{User: student, Password: password})
}

func (h *MemberHandler) UpdateStudent(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input dto.UpdateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	student, err := h.memberService.UpdateStudent(c.Request.Context(), actorID, studentID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *MemberHandler) DeleteStudent(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteStudent(c.Request.Context(), actorID, studentID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "student deleted successfully"})
}

func (h *MemberHandler) ListAdmins(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	admins, err := h.memberService.Admins(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": admins})
}

func (h *MemberHandler) AddAdmin(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.AddAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	admin, password, err := h.memberService.AddAdmin(c.Request.Context(), actorID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MemberResponse{User: admin, Password: password})
}

func (h *MemberHandler) DeleteAdmin(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	adminID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteAdmin(c.Request.Context(), actorID, adminID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "admin deleted successfully"})
}

func (h *MemberHandler) RecordSession(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.RecordSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	studentID, err := uuid.Parse(input.StudentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student ID must be a valid UUID"})
		return
	}

	session, err := h.memberService.RecordSession(c.Request.Context(), actorID, studentID, input.Date, input.Hours)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// StudentSessions lists a student's recorded attendance, newest first.
func (h *MemberHandler) StudentSessions(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.memberService.Sessions(c.Request.Context(), actorID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

func (h *MemberHandler) Activity(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.memberService.Activity(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
