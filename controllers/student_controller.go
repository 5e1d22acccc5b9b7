// controllers/student_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"hostel_admin_tool/app"
	"hostel_admin_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StudentController struct{ *Srv }

func NewStudentController(s *Srv) *StudentController { return &StudentController{Srv: s} }

func (sc *StudentController) CreateStudent(c *gin.Context) {
	var in struct {
		RegNo string `json:"regNo" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	s := &models.Student{
		ID:    uuid.NewString(),
		RegNo: in.RegNo,
		Name:  in.Name,
		Phone: in.Phone,
	}
	if err := sc.Repo.CreateStudent(c.Request.Context(), s); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (sc *StudentController) ListStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := sc.Repo.ListStudents(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// 单个学生 + 当前分配
func (sc *StudentController) GetStudent(c *gin.Context) {
	s, err := sc.Repo.FindStudentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	alloc, err := sc.Repo.ActiveAllocationForStudent(c.Request.Context(), s.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"student": s, "allocation": alloc})
}
