package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"hostel_admin_tool/db"
	"hostel_admin_tool/lock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	studentLocks *lock.StudentLock
}

// Config 从环境变量读取
type Config struct {
	RedisAddr   string
	RedisPwd    string
	WebOrigin   string
	StaffTokens []string // 例如: "tok1,tok2"
	AdminTokens []string
	LockTTL     time.Duration
}

func (a *App) StudentLocks() *lock.StudentLock { return a.studentLocks }

func MustNew() *App {
	cfg := loadConfig()

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		studentLocks: lock.NewStudentLock(rdb, cfg.LockTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	csv := func(k string) []string {
		var out []string
		for _, s := range strings.Split(os.Getenv(k), ",") {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	ttlSec := get("ALLOC_LOCK_TTL_SECONDS", "10")
	var ttl time.Duration = 10 * time.Second
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil {
		ttl = d
	}
	return Config{
		RedisAddr:   get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		WebOrigin:   get("WEB_ORIGIN", "http://localhost:5173"),
		StaffTokens: csv("STAFF_TOKENS"),
		AdminTokens: csv("ADMIN_TOKENS"),
		LockTTL:     ttl,
	}
}
