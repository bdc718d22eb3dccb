package handlers

import (
	"errors"
	"net/http"

	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StudentHandler exposes the admin student directory.
type StudentHandler struct {
	studentService services.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(ss services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: ss}
}

// ListStudents returns every student with their current khata position.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.ListStudents()
	if err != nil {
		utils.LogError(err, "ListStudents: Error from studentService.ListStudents")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list students.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// GetStudentProfile returns one student's directory entry.
func (h *StudentHandler) GetStudentProfile(c *gin.Context) {
	student, err := h.studentService.GetStudentProfile(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Student not found.", ""))
			return
		}
		utils.LogError(err, "GetStudentProfile: Error from studentService.GetStudentProfile")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch student.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, student)
}
