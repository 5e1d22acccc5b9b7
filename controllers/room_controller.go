// controllers/room_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"hostel_admin_tool/app"
	"hostel_admin_tool/db"
	"hostel_admin_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomController struct{ *Srv }

func NewRoomController(s *Srv) *RoomController { return &RoomController{Srv: s} }

// 管理员建房
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in struct {
		Block      string `json:"block" binding:"required"`
		RoomNumber string `json:"roomNumber" binding:"required"`
		Floor      int    `json:"floor"`
		Capacity   int    `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	room := &models.Room{
		ID:         uuid.NewString(),
		Block:      in.Block,
		RoomNumber: in.RoomNumber,
		Floor:      in.Floor,
		Capacity:   in.Capacity,
	}
	if err := rc.Repo.CreateRoom(c.Request.Context(), room); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// 列表（含占用投影）
func (rc *RoomController) ListRooms(c *gin.Context) {
	q := db.ListRoomsQuery{
		Block:  c.Query("block"),
		Status: c.Query("status"),
		Q:      c.Query("q"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := rc.Repo.ListRooms(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "rooms": res.Rooms})
}

// 单个房间 + 空床 + 在住分配
func (rc *RoomController) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	room, err := rc.Repo.FindRoomByID(c.Request.Context(), roomID)
	if err != nil {
		fail(c, err)
		return
	}
	free, err := rc.Repo.FreeBeds(c.Request.Context(), roomID)
	if err != nil {
		fail(c, err)
		return
	}
	allocs, err := rc.Repo.ActiveAllocationsForRoom(c.Request.Context(), roomID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"room":        room,
		"freeBeds":    free,
		"allocations": allocs,
	})
}

// 手动状态：body 里 status 为空表示清除覆盖
func (rc *RoomController) SetStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	room, err := rc.Repo.SetManualStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	if err := rc.Repo.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// 分楼栋占用汇总 ?block= 可选
func (rc *RoomController) BlockStats(c *gin.Context) {
	rows, err := rc.Repo.OccupancyByBlock(c.Request.Context(), c.Query("block"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"blocks": rows})
}
