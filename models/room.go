// models/room.go
package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const RoomTable = "hostel_rooms"

// 房间状态：available/occupied 由台账推导，maintenance/reserved 仅手动设置
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
	RoomReserved    = "reserved"
)

type Room struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	Block      string `gorm:"size:50;not null;uniqueIndex:idx_hostel_rooms_block_number" json:"block"`
	RoomNumber string `gorm:"size:30;not null;uniqueIndex:idx_hostel_rooms_block_number" json:"roomNumber"`
	Floor      int    `gorm:"not null" json:"floor"`
	Capacity   int    `gorm:"not null" json:"capacity"` // 床位数，标签固定为 B1..Bcapacity

	// ✅ 冗余列：投影，只在台账变更的同一事务里由重算写入
	CurrentOccupancy int    `gorm:"not null;default:0" json:"currentOccupancy"`
	Status           string `gorm:"size:20;not null;default:'available'" json:"status"`
	// 手动覆盖：maintenance/reserved；为空时按占用自动推导
	ManualStatus *string `gorm:"size:20" json:"manualStatus,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Room) TableName() string { return RoomTable }

// BedLabel 第 n 床的标签（n 从 1 开始）
func BedLabel(n int) string { return fmt.Sprintf("B%d", n) }

// BedLabels 返回 B1..Bcapacity
func BedLabels(capacity int) []string {
	labels := make([]string, 0, capacity)
	for i := 1; i <= capacity; i++ {
		labels = append(labels, BedLabel(i))
	}
	return labels
}

// ValidBedLabel 校验标签属于该房间：B1..Bcapacity，拒绝 B01 这类变体
func ValidBedLabel(capacity int, label string) bool {
	if !strings.HasPrefix(label, "B") {
		return false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 || n > capacity {
		return false
	}
	return label == BedLabel(n)
}

// LowestFreeBed 选编号最小的空床；满员返回 ""
func LowestFreeBed(capacity int, taken map[string]bool) string {
	for i := 1; i <= capacity; i++ {
		if l := BedLabel(i); !taken[l] {
			return l
		}
	}
	return ""
}

// FreeBeds 返回全部空床标签，按编号升序
func FreeBeds(capacity int, taken map[string]bool) []string {
	free := make([]string, 0, capacity)
	for i := 1; i <= capacity; i++ {
		if l := BedLabel(i); !taken[l] {
			free = append(free, l)
		}
	}
	return free
}

// BedNumber 标签里的床位编号；非法标签返回 0
func BedNumber(label string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(label, "B"))
	return n
}

// SortBedLabels 按床位编号排序（B2 < B10）
func SortBedLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		return BedNumber(labels[i]) < BedNumber(labels[j])
	})
}

// DeriveStatus 由占用推导状态；手动覆盖优先。
// 有空床即 available（含部分入住），满员为 occupied。
func DeriveStatus(manual *string, occupancy, capacity int) string {
	if manual != nil && *manual != "" {
		return *manual
	}
	if occupancy >= capacity {
		return RoomOccupied
	}
	return RoomAvailable
}
