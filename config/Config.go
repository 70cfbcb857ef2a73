package config

import "github.com/Stelujin-Datacraft/topsqill/analytics"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig     RedisStorageConfig
	HttpPort        int
	StorageType     StorageType
	DefinitionsDir  string
	AnalyticsConfig analytics.DataCollectorConfig
	LogLevel        string
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	PoolSize  int
	Password  string
}
