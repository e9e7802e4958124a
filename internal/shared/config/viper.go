package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	mu   sync.RWMutex
	conf Config
)

// Get 返回当前配置的副本，热更新期间读也安全。
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

// Set 直接替换配置，测试和命令行工具使用。
func Set(c Config) {
	mu.Lock()
	conf = c
	mu.Unlock()
}

func load(configPath string) {
	if !fileExist(configPath) {
		panic(fmt.Sprintf("config file not exist, configPath=%v", configPath))
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			// 热更新失败保留旧配置
			log.Printf("viper unmarshal change config data: %v", err)
			return
		}
		Set(next)
	})
	v.WatchConfig()

	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	Set(c)

	// 环境变量优先；未设置时回填配置中的 jwt_secret，兼容本地开发
	if os.Getenv("JWT_SECRET") == "" && c.Session.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", c.Session.JWTSecret)
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
