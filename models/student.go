// models/student.go
package models

import "time"

const StudentTable = "hostel_students"

// Student 学生主档在别的系统，这里只存身份 + 当前入住投影。
// Current* 字段是 Allocate/Deallocate 的副作用，和台账同事务写入。
type Student struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	RegNo string `gorm:"size:120;uniqueIndex;not null" json:"regNo"` // 学号
	Name  string `gorm:"size:200;not null" json:"name"`
	Phone string `gorm:"size:30" json:"phone,omitempty"`

	CurrentRoomID *string    `gorm:"type:uuid;index" json:"currentRoomId,omitempty"`
	CurrentBed    *string    `gorm:"size:10" json:"currentBed,omitempty"`
	CurrentBlock  *string    `gorm:"size:50" json:"currentBlock,omitempty"`
	CurrentFloor  *int       `json:"currentFloor,omitempty"`
	CheckedInAt   *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt  *time.Time `json:"checkedOutAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Student) TableName() string { return StudentTable }
