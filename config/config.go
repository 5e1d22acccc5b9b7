package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env；文件不存在时直接用进程环境变量
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}
