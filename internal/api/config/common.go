package config

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	JWT                  JWTConfig            `mapstructure:"jwt"`
	Push                 PushConfig           `mapstructure:"push"`
	Mission              MissionConfig        `mapstructure:"mission"`
	Scheduler            SchedulerConfig      `mapstructure:"scheduler"`
	Trigger              TriggerConfig        `mapstructure:"trigger"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaVoteConsumer    KafkaVoteConsumer    `mapstructure:"kafka_vote_consumer"`
	KafkaCommentConsumer KafkaCommentConsumer `mapstructure:"kafka_comment_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig 数据库配置，DSN 为空时由各字段拼装
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	// ExpireHours 令牌有效期
	ExpireHours int `mapstructure:"expire_hours"`
}

// PushConfig 推送网关配置
type PushConfig struct {
	GatewayURL string `mapstructure:"gateway_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"`
	LinkBase   string `mapstructure:"link_base"`
	// RatePerSecond 每秒最多推送条数，0 表示不限
	RatePerSecond int `mapstructure:"rate_per_second"`
}

// MissionConfig 任务奖励配置
type MissionConfig struct {
	// Timezone 决定“今天”的日历日期
	Timezone string `mapstructure:"timezone"`
	// TxMaxAttempts 乐观事务冲突后的最大尝试次数
	TxMaxAttempts int `mapstructure:"tx_max_attempts"`
}

// SchedulerConfig 案件关闭定时任务配置
type SchedulerConfig struct {
	CloseSpec       string `mapstructure:"close_spec"`
	BatchSize       int    `mapstructure:"batch_size"`
	PushConcurrency int    `mapstructure:"push_concurrency"`
}

// TriggerConfig 热度重算触发方式: kafka | local
type TriggerConfig struct {
	Mode    string `mapstructure:"mode"`
	Workers int    `mapstructure:"workers"`
	Buffer  int    `mapstructure:"buffer"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaVoteConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaCommentConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
