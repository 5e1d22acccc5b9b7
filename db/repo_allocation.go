package db

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"hostel_admin_tool/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Allocations

var (
	ErrRoomUnavailable    = errors.New("room is under maintenance or reserved")
	ErrRoomFull           = errors.New("room is full")
	ErrBedTaken           = errors.New("bed already has an active allocation")
	ErrInvalidBedLabel    = errors.New("bed label does not exist in this room")
	ErrStudentAllocated   = errors.New("student already has an active allocation")
	ErrAllocationNotFound = errors.New("no active allocation for this student in this room")
	ErrSameRoom           = errors.New("student is already in this room")
)

// activeBeds 房间内 active 分配占用的床位集合；调用方需已持有房间行锁
func activeBeds(tx *gorm.DB, roomID string) (map[string]bool, error) {
	var allocs []models.Allocation
	if err := tx.
		Where("room_id = ? AND status = ?", roomID, models.AllocationActive).
		Find(&allocs).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(allocs))
	for _, a := range allocs {
		taken[a.BedLabel] = true
	}
	return taken, nil
}

// recomputeOccupancy 从台账重算房间占用与状态，同事务写回。
// 投影只在这里写，别处不许碰 current_occupancy/status。
func recomputeOccupancy(tx *gorm.DB, room *models.Room) error {
	var n int64
	if err := tx.Model(&models.Allocation{}).
		Where("room_id = ? AND status = ?", room.ID, models.AllocationActive).
		Count(&n).Error; err != nil {
		return err
	}
	room.CurrentOccupancy = int(n)
	room.Status = models.DeriveStatus(room.ManualStatus, room.CurrentOccupancy, room.Capacity)
	return tx.Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"current_occupancy": room.CurrentOccupancy,
			"status":            room.Status,
			"manual_status":     room.ManualStatus,
		}).Error
}

// lockRoom 锁房间行，房内的检查-写入串行化都靠它
func lockRoom(tx *gorm.DB, roomID string) (*models.Room, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// AllocateBed 入住：原子操作 = 锁房间 → 校验 → 写台账 → 重算投影。
// bedLabel 为空时自动选编号最小的空床。
func (r *Repo) AllocateBed(ctx context.Context, roomID, studentID, bedLabel, note string) (*models.Allocation, error) {
	var alloc *models.Allocation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		// 维修/预留的房间不收人
		if room.ManualStatus != nil && *room.ManualStatus != "" {
			return ErrRoomUnavailable
		}
		var stu models.Student
		if err := tx.First(&stu, "id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
		// 学生全局最多一条 active（可能在别的房间）
		var n int64
		if err := tx.Model(&models.Allocation{}).
			Where("student_id = ? AND status = ?", studentID, models.AllocationActive).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrStudentAllocated
		}
		taken, err := activeBeds(tx, room.ID)
		if err != nil {
			return err
		}
		if len(taken) >= room.Capacity {
			return ErrRoomFull
		}
		if bedLabel != "" {
			if !models.ValidBedLabel(room.Capacity, bedLabel) {
				return ErrInvalidBedLabel
			}
			if taken[bedLabel] {
				return ErrBedTaken
			}
		} else {
			bedLabel = models.LowestFreeBed(room.Capacity, taken)
		}

		now := time.Now().UTC()
		a := &models.Allocation{
			ID:          uuid.NewString(),
			RoomID:      room.ID,
			StudentID:   studentID,
			BedLabel:    bedLabel,
			Status:      models.AllocationActive,
			AllocatedAt: now,
			Note:        note,
		}
		if err := tx.Create(a).Error; err != nil {
			// 部分唯一索引兜底跨房间/跨连接的竞态
			if strings.Contains(err.Error(), "one_active_per_student") {
				return ErrStudentAllocated
			}
			if strings.Contains(err.Error(), "one_active_per_bed") {
				return ErrBedTaken
			}
			return err
		}
		if err := recomputeOccupancy(tx, room); err != nil {
			return err
		}
		// 学生侧投影，和台账同事务提交
		if err := tx.Model(&models.Student{}).
			Where("id = ?", studentID).
			Updates(map[string]any{
				"current_room_id": room.ID,
				"current_bed":     bedLabel,
				"current_block":   room.Block,
				"current_floor":   room.Floor,
				"checked_in_at":   now,
				"checked_out_at":  nil,
			}).Error; err != nil {
			return err
		}
		alloc = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// Deallocate 退宿：关闭 active 分配并重算投影。
// 不做幂等：重复退宿返回 ErrAllocationNotFound，由调用方决定如何处理。
func (r *Repo) Deallocate(ctx context.Context, roomID, studentID string) (*models.Allocation, error) {
	var closed models.Allocation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND student_id = ? AND status = ?",
				roomID, studentID, models.AllocationActive).
			First(&closed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&models.Allocation{}).
			Where("id = ?", closed.ID).
			Updates(map[string]any{
				"status":    models.AllocationCheckout,
				"closed_at": now,
			}).Error; err != nil {
			return err
		}
		closed.Status = models.AllocationCheckout
		closed.ClosedAt = &now
		if err := recomputeOccupancy(tx, room); err != nil {
			return err
		}
		return tx.Model(&models.Student{}).
			Where("id = ?", studentID).
			Updates(map[string]any{
				"current_room_id": nil,
				"current_bed":     nil,
				"current_block":   nil,
				"current_floor":   nil,
				"checked_out_at":  now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &closed, nil
}

// TransferBed 换房：旧分配置为 transferred，新房间按入住规则开新分配，
// 一个事务内完成。两个房间行按 ID 升序加锁，避免互相等待。
func (r *Repo) TransferBed(ctx context.Context, fromRoomID, toRoomID, studentID, bedLabel string) (*models.Allocation, error) {
	if fromRoomID == toRoomID {
		return nil, ErrSameRoom
	}
	var alloc *models.Allocation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []string{fromRoomID, toRoomID}
		sort.Strings(ids)
		rooms := map[string]*models.Room{}
		for _, id := range ids {
			room, err := lockRoom(tx, id)
			if err != nil {
				return err
			}
			rooms[id] = room
		}
		from, to := rooms[fromRoomID], rooms[toRoomID]
		if to.ManualStatus != nil && *to.ManualStatus != "" {
			return ErrRoomUnavailable
		}

		var old models.Allocation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND student_id = ? AND status = ?",
				fromRoomID, studentID, models.AllocationActive).
			First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return err
		}

		taken, err := activeBeds(tx, to.ID)
		if err != nil {
			return err
		}
		if len(taken) >= to.Capacity {
			return ErrRoomFull
		}
		if bedLabel != "" {
			if !models.ValidBedLabel(to.Capacity, bedLabel) {
				return ErrInvalidBedLabel
			}
			if taken[bedLabel] {
				return ErrBedTaken
			}
		} else {
			bedLabel = models.LowestFreeBed(to.Capacity, taken)
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Allocation{}).
			Where("id = ?", old.ID).
			Updates(map[string]any{
				"status":    models.AllocationTransferred,
				"closed_at": now,
			}).Error; err != nil {
			return err
		}
		a := &models.Allocation{
			ID:          uuid.NewString(),
			RoomID:      to.ID,
			StudentID:   studentID,
			BedLabel:    bedLabel,
			Status:      models.AllocationActive,
			AllocatedAt: now,
		}
		if err := tx.Create(a).Error; err != nil {
			if strings.Contains(err.Error(), "one_active_per_bed") {
				return ErrBedTaken
			}
			return err
		}
		if err := recomputeOccupancy(tx, from); err != nil {
			return err
		}
		if err := recomputeOccupancy(tx, to); err != nil {
			return err
		}
		if err := tx.Model(&models.Student{}).
			Where("id = ?", studentID).
			Updates(map[string]any{
				"current_room_id": to.ID,
				"current_bed":     bedLabel,
				"current_block":   to.Block,
				"current_floor":   to.Floor,
				"checked_in_at":   now,
				"checked_out_at":  nil,
			}).Error; err != nil {
			return err
		}
		alloc = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// FreeBeds 空床标签，按编号升序
func (r *Repo) FreeBeds(ctx context.Context, roomID string) ([]string, error) {
	room, err := r.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	taken, err := activeBeds(r.DB.WithContext(ctx), roomID)
	if err != nil {
		return nil, err
	}
	return models.FreeBeds(room.Capacity, taken), nil
}

// ActiveAllocationForStudent 学生当前的 active 分配；没有时返回 (nil, nil)
func (r *Repo) ActiveAllocationForStudent(ctx context.Context, studentID string) (*models.Allocation, error) {
	var a models.Allocation
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, models.AllocationActive).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ActiveAllocationsForRoom 房间内全部 active 分配，按床位编号升序返回
func (r *Repo) ActiveAllocationsForRoom(ctx context.Context, roomID string) ([]models.Allocation, error) {
	var allocs []models.Allocation
	if err := r.DB.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, models.AllocationActive).
		Find(&allocs).Error; err != nil {
		return nil, err
	}
	sort.Slice(allocs, func(i, j int) bool {
		return models.BedNumber(allocs[i].BedLabel) < models.BedNumber(allocs[j].BedLabel)
	})
	return allocs, nil
}

// ListAllocations 台账历史
func (r *Repo) ListAllocations(ctx context.Context, roomID, studentID, status string) ([]models.Allocation, error) {
	q := r.DB.WithContext(ctx).Model(&models.Allocation{}).Order("allocated_at DESC")
	if roomID != "" {
		q = q.Where("room_id = ?", roomID)
	}
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	switch status {
	case "":
		// all
	case "closed":
		q = q.Where("status <> ?", models.AllocationActive)
	default:
		q = q.Where("status = ?", status)
	}
	var allocs []models.Allocation
	if err := q.Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}
