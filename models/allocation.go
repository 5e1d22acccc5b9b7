// models/allocation.go
package models

import "time"

const AllocationTable = "hostel_allocations"

// 分配状态：active → checkout（退宿）/ transferred（换房）。
// 关闭后的记录不再改动，留作历史台账。
const (
	AllocationActive      = "active"
	AllocationCheckout    = "checkout"
	AllocationTransferred = "transferred"
)

type Allocation struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    string `gorm:"type:uuid;index;not null" json:"roomId"`
	StudentID string `gorm:"type:uuid;index;not null" json:"studentId"`
	BedLabel  string `gorm:"size:10;not null" json:"bedLabel"`
	Status    string `gorm:"size:20;not null;default:'active'" json:"status"`

	AllocatedAt time.Time  `gorm:"index;not null" json:"allocatedAt"`
	ClosedAt    *time.Time `gorm:"index" json:"closedAt,omitempty"`

	Note      string    `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Allocation) TableName() string { return AllocationTable }
