package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 同一学生已有分配操作在进行中
var ErrBusy = errors.New("another allocation for this student is in progress")

// StudentLock 把同一学生的分配操作串行化：SetNX + TTL。
// 学生唯一性的最终防线是台账上的部分唯一索引，
// 这里只是让并发请求在进事务前就失败，而不是撞约束。
// 锁要在拿房间行锁之前获取，事务提交后释放。
type StudentLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStudentLock(rdb *redis.Client, ttl time.Duration) *StudentLock {
	return &StudentLock{rdb: rdb, ttl: ttl}
}

func key(studentID string) string { return fmt.Sprintf("hostel:alloc:lock:%s", studentID) }

// Acquire 拿不到锁返回 ErrBusy；TTL 兜底进程崩溃后的死锁
func (l *StudentLock) Acquire(ctx context.Context, studentID string) error {
	ok, err := l.rdb.SetNX(ctx, key(studentID), "1", l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrBusy
	}
	return nil
}

func (l *StudentLock) Release(ctx context.Context, studentID string) {
	_ = l.rdb.Del(ctx, key(studentID)).Err()
}
