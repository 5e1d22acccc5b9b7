package db

import (
	"context"
	"errors"
	"strings"

	"hostel_admin_tool/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Students

var (
	ErrStudentExists   = errors.New("student with this registration number already exists")
	ErrStudentNotFound = errors.New("student not found")
)

func (r *Repo) CreateStudent(ctx context.Context, s *models.Student) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Student{}).
		Where("reg_no = ?", s.RegNo).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrStudentExists
	}
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *Repo) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) FindStudentByRegNo(ctx context.Context, regNo string) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).Where("reg_no = ?", regNo).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// 列表（分页 + 关键词，关键词匹配学号/姓名）
type ListStudentsResult struct {
	Students []models.Student `json:"students"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListStudents(ctx context.Context, q string, page, size int) (ListStudentsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Student{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(reg_no) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListStudentsResult{}, err
	}

	var students []models.Student
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&students).Error; err != nil {
		return ListStudentsResult{}, err
	}
	return ListStudentsResult{Students: students, Total: total}, nil
}
