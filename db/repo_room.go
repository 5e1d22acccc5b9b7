package db

import (
	"context"
	"errors"
	"strings"

	"hostel_admin_tool/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rooms

var (
	ErrRoomExists      = errors.New("room number already exists in this block")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomOccupied    = errors.New("room still has active allocations")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrInvalidStatus   = errors.New("manual status must be maintenance or reserved")
)

// CreateRoom 校验容量和 (block, room_number) 唯一后落库；
// 唯一索引兜底并发重复创建。
func (r *Repo) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.Capacity < 1 {
		return ErrInvalidCapacity
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Room{}).
		Where("block = ? AND room_number = ?", room.Block, room.RoomNumber).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrRoomExists
	}
	room.CurrentOccupancy = 0
	room.Status = models.DeriveStatus(room.ManualStatus, 0, room.Capacity)
	if err := r.DB.WithContext(ctx).Create(room).Error; err != nil {
		if strings.Contains(err.Error(), "idx_hostel_rooms_block_number") {
			return ErrRoomExists
		}
		return err
	}
	return nil
}

func (r *Repo) FindRoomByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.DB.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

type ListRoomsQuery struct {
	Block  string // 精确匹配
	Status string // "", "available", "occupied", "maintenance", "reserved"
	Q      string // 模糊搜索：房号
	Page   int
	Size   int
}

type PagedRooms struct {
	Total int64         `json:"total"`
	Rooms []models.Room `json:"rooms"`
}

func (r *Repo) ListRooms(ctx context.Context, q ListRoomsQuery) (*PagedRooms, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Room{})
	if b := strings.TrimSpace(q.Block); b != "" {
		tx = tx.Where("block = ?", b)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(room_number) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := tx.
		Order("block, room_number").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return &PagedRooms{Total: total, Rooms: rooms}, nil
}

// SetManualStatus 设置/清除手动覆盖。status 传空串表示清除，
// 清除后状态回到按占用自动推导。
func (r *Repo) SetManualStatus(ctx context.Context, roomID, status string) (*models.Room, error) {
	switch status {
	case "", models.RoomMaintenance, models.RoomReserved:
	default:
		return nil, ErrInvalidStatus
	}

	var room models.Room
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if status == "" {
			room.ManualStatus = nil
		} else {
			room.ManualStatus = &status
		}
		return recomputeOccupancy(tx, &room)
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom 只允许删除没有 active 分配的房间；历史台账保留
func (r *Repo) DeleteRoom(ctx context.Context, roomID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.Allocation{}).
			Where("room_id = ? AND status = ?", roomID, models.AllocationActive).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrRoomOccupied
		}
		return tx.Delete(&models.Room{}, "id = ?", roomID).Error
	})
}

// 分楼栋汇总

type BlockOccupancyRow struct {
	Block     string `json:"block"`
	Rooms     int64  `json:"rooms"`
	Capacity  int64  `json:"capacity"`
	Occupied  int64  `json:"occupied"`
	FreeBeds  int64  `json:"freeBeds"`
	FullRooms int64  `json:"fullRooms"`
}

func (r *Repo) OccupancyByBlock(ctx context.Context, block string) ([]BlockOccupancyRow, error) {
	qry := r.DB.WithContext(ctx).
		Table(models.RoomTable + " r").
		Select(`
			r.block,
			COUNT(*) AS rooms,
			COALESCE(SUM(r.capacity), 0) AS capacity,
			COALESCE(SUM(r.current_occupancy), 0) AS occupied,
			COALESCE(SUM(r.capacity - r.current_occupancy), 0) AS free_beds,
			SUM(CASE WHEN r.current_occupancy >= r.capacity THEN 1 ELSE 0 END) AS full_rooms
		`).
		Group("r.block").
		Order("r.block")
	if b := strings.TrimSpace(block); b != "" {
		qry = qry.Where("r.block = ?", b)
	}

	var rows []BlockOccupancyRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
