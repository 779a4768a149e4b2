package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 GAVEL_* 可覆盖文件中的值
func LoadConfig() error {
	// 本地开发时从 .env 注入 GAVEL_* 变量，文件不存在不影响启动
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("GAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("jwt.issuer", "Gavel")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("push.timeout", 5)
	v.SetDefault("push.rate_per_second", 50)
	v.SetDefault("mission.timezone", "Asia/Seoul")
	v.SetDefault("mission.tx_max_attempts", 5)
	v.SetDefault("scheduler.close_spec", "0 */10 * * * *")
	v.SetDefault("scheduler.batch_size", 500)
	v.SetDefault("scheduler.push_concurrency", 8)
	v.SetDefault("trigger.mode", "kafka")
	v.SetDefault("trigger.workers", 4)
	v.SetDefault("trigger.buffer", 1024)
}
