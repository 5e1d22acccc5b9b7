package routes

import (
	"hostel_admin_tool/app"
	"hostel_admin_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	roomCtl := controllers.NewRoomController(s)
	allocCtl := controllers.NewAllocationController(s)
	stuCtl := controllers.NewStudentController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Config)
	adminMW := app.AdminOnly()

	// ------------------------------
	// 房间管理（仅管理员）
	// ------------------------------
	roomsAdmin := r.Group("/api/rooms", authMW, adminMW)
	{
		roomsAdmin.POST("", roomCtl.CreateRoom)
		roomsAdmin.PUT("/:id/status", roomCtl.SetStatus) // maintenance/reserved/清除
		roomsAdmin.DELETE("/:id", roomCtl.DeleteRoom)
	}

	// ------------------------------
	// 房间查询 + 分配（宿管）
	// ------------------------------
	rooms := r.Group("/api/rooms", authMW)
	{
		rooms.GET("", roomCtl.ListRooms) // ?block=&status=&q=&page=&size=
		rooms.GET("/stats", roomCtl.BlockStats)
		rooms.GET("/:id", roomCtl.GetRoom)
		rooms.GET("/:id/beds", allocCtl.ListAvailableBeds)

		rooms.POST("/:id/allocate", allocCtl.Allocate)
		rooms.POST("/:id/deallocate", allocCtl.Deallocate)
		rooms.POST("/:id/transfer", allocCtl.Transfer)
	}

	// 台账历史
	r.GET("/api/allocations", authMW, allocCtl.ListAllocations) // ?roomId=&studentId=&status=

	// ------------------------------
	// 学生
	// ------------------------------
	studentsAdmin := r.Group("/api/students", authMW, adminMW)
	{
		studentsAdmin.POST("", stuCtl.CreateStudent)
	}
	students := r.Group("/api/students", authMW)
	{
		students.GET("", stuCtl.ListStudents) // ?q=&page=&size=
		students.GET("/:id", stuCtl.GetStudent)
	}
}
