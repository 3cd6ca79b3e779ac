// 包 config：集中读取环境变量，统一默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
)

// Config：服务运行参数
type Config struct {
	Addr    string
	APIBase string

	FacilityPath          string
	FacilitySheet         string
	ConstituencyPath      string
	ConstituencyNameField string
	MatchByLocation       bool

	ViewCacheSize int
	ViewCacheTTL  time.Duration

	RedisEnable bool
	PGEnable    bool

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string

	Extent geometry.ExtentPolicy
}

// LoadDotEnv：依次加载 .env 与 data/env/.env；文件不存在时忽略，已存在的环境变量不会被覆盖
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// FromEnv：读取环境变量；非法数值回退到默认值
func FromEnv() Config {
	c := Config{
		Addr:                  str("ADDR", ":8080"),
		APIBase:               strings.TrimRight(str("API_BASE", "/api"), "/"),
		FacilityPath:          str("FACILITY_PATH", filepath.Join("data", "Punjab_Sports_Constituency_Data.xlsx")),
		FacilitySheet:         os.Getenv("FACILITY_SHEET"),
		ConstituencyPath:      str("CONSTITUENCY_PATH", filepath.Join("data", "Punjab_Legislative_Constituency.shp")),
		ConstituencyNameField: str("CONSTITUENCY_NAME_FIELD", geometry.DefaultNameField),
		MatchByLocation:       boolean("MATCH_BY_LOCATION", true),
		ViewCacheSize:         integer("VIEW_CACHE_SIZE", 512),
		ViewCacheTTL:          time.Duration(integer("VIEW_CACHE_TTL_S", 3600)) * time.Second,
		RedisEnable:           boolean("REDIS_ENABLE", false),
		PGEnable:              boolean("PG_ENABLE", false),
		TLSEnable:             boolean("TLS_ENABLE", false),
		TLSCertPath:           str("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:            str("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
	c.Extent = geometry.DefaultPolicy()
	c.Extent.Wide = integer("ZOOM_WIDE", geometry.ZoomWide)
	c.Extent.Close = integer("ZOOM_CLOSE", geometry.ZoomClose)
	c.Extent.Medium = integer("ZOOM_MEDIUM", geometry.ZoomMedium)
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	return c
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func boolean(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}
