package db

import (
	"fmt"
	"log"
	"os"

	"hostel_admin_tool/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Room{}, &models.Student{}, &models.Allocation{}); err != nil {
		return err
	}

	// 同一张床最多一条 active 分配
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_bed
	  ON %s (room_id, bed_label)
	  WHERE status = 'active';
	`, models.AllocationTable, models.AllocationTable)).Error; err != nil {
		return err
	}

	// 同一个学生全局最多一条 active 分配（跨房间）
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_student
	  ON %s (student_id)
	  WHERE status = 'active';
	`, models.AllocationTable, models.AllocationTable)).Error; err != nil {
		return err
	}

	// 查房间当前入住更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_room_allocatedat_desc
	  ON %s (room_id, allocated_at DESC)
	  WHERE status = 'active';
	`, models.AllocationTable, models.AllocationTable)).Error; err != nil {
		return err
	}

	return nil
}
