// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"hostel_admin_tool/app"
	"hostel_admin_tool/db"
	"hostel_admin_tool/lock"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo  *db.Repo
	Locks *lock.StudentLock
	Cfg   app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:  db.NewRepo(a.DB),
		Locks: a.StudentLocks(),
		Cfg:   a.Config,
	}
}

// --- helpers ---

// 统一错误 → HTTP 状态码：NotFound 404 / Conflict 409 / Validation 400
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrRoomNotFound),
		errors.Is(err, db.ErrStudentNotFound),
		errors.Is(err, db.ErrAllocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrRoomExists),
		errors.Is(err, db.ErrRoomOccupied),
		errors.Is(err, db.ErrRoomUnavailable),
		errors.Is(err, db.ErrRoomFull),
		errors.Is(err, db.ErrBedTaken),
		errors.Is(err, db.ErrStudentAllocated),
		errors.Is(err, db.ErrStudentExists),
		errors.Is(err, db.ErrSameRoom),
		errors.Is(err, lock.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, db.ErrInvalidCapacity),
		errors.Is(err, db.ErrInvalidStatus),
		errors.Is(err, db.ErrInvalidBedLabel):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), app.H{"error": err.Error()})
}
