// controllers/allocation_controller.go
package controllers

import (
	"net/http"

	"hostel_admin_tool/app"

	"github.com/gin-gonic/gin"
)

type AllocationController struct{ *Srv }

func NewAllocationController(s *Srv) *AllocationController {
	return &AllocationController{Srv: s}
}

// 入住。bed 不传则自动分配编号最小的空床。
func (ac *AllocationController) Allocate(c *gin.Context) {
	roomID := c.Param("id")
	var in struct {
		StudentID string `json:"studentId" binding:"required"`
		Bed       string `json:"bed"`
		Note      string `json:"note"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	// 学生级锁先于房间行锁，跨房间的同学生并发在这里就挡掉
	ctx := c.Request.Context()
	if err := ac.Locks.Acquire(ctx, in.StudentID); err != nil {
		fail(c, err)
		return
	}
	defer ac.Locks.Release(ctx, in.StudentID)

	alloc, err := ac.Repo.AllocateBed(ctx, roomID, in.StudentID, in.Bed, in.Note)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, alloc)
}

// 退宿。对已退宿的分配重复调用会得到 404，不做静默幂等。
func (ac *AllocationController) Deallocate(c *gin.Context) {
	roomID := c.Param("id")
	var in struct {
		StudentID string `json:"studentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := ac.Locks.Acquire(ctx, in.StudentID); err != nil {
		fail(c, err)
		return
	}
	defer ac.Locks.Release(ctx, in.StudentID)

	alloc, err := ac.Repo.Deallocate(ctx, roomID, in.StudentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// 换房：旧分配记 transferred，新房间按入住规则开新分配
func (ac *AllocationController) Transfer(c *gin.Context) {
	fromRoomID := c.Param("id")
	var in struct {
		StudentID string `json:"studentId" binding:"required"`
		ToRoomID  string `json:"toRoomId" binding:"required"`
		Bed       string `json:"bed"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := ac.Locks.Acquire(ctx, in.StudentID); err != nil {
		fail(c, err)
		return
	}
	defer ac.Locks.Release(ctx, in.StudentID)

	alloc, err := ac.Repo.TransferBed(ctx, fromRoomID, in.ToRoomID, in.StudentID, in.Bed)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// 空床查询
func (ac *AllocationController) ListAvailableBeds(c *gin.Context) {
	free, err := ac.Repo.FreeBeds(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"beds": free})
}

// 台账历史 ?roomId=&studentId=&status=active|checkout|transferred|closed
func (ac *AllocationController) ListAllocations(c *gin.Context) {
	allocs, err := ac.Repo.ListAllocations(c.Request.Context(),
		c.Query("roomId"), c.Query("studentId"), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"allocations": allocs})
}
