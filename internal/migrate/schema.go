// 包 migrate：启动时确保 PostgreSQL 表结构存在
package migrate

import (
	"context"
	"database/sql"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
)

// Statements：建表语句，按顺序执行
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS _facility_records (
		id BIGSERIAL PRIMARY KEY,
		source_row INT NOT NULL,
		district TEXT NOT NULL,
		original_constituency TEXT NOT NULL DEFAULT '',
		constituency TEXT NOT NULL,
		facility TEXT NOT NULL,
		ownership TEXT NOT NULL,
		area TEXT NOT NULL,
		sport TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_facility_constituency_sport ON _facility_records(constituency, sport)`,
	`CREATE TABLE IF NOT EXISTS _view_stats_total (
		id INT PRIMARY KEY,
		total_views BIGINT NOT NULL DEFAULT 0,
		empty_views BIGINT NOT NULL DEFAULT 0
	)`,
	`INSERT INTO _view_stats_total(id, total_views, empty_views)
		VALUES(1, 0, 0)
		ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS _view_stats_daily (
		day DATE PRIMARY KEY,
		views BIGINT NOT NULL DEFAULT 0,
		empty_views BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS _unmatched_records (
		source_row INT NOT NULL,
		constituency TEXT NOT NULL,
		facility TEXT NOT NULL,
		sport TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		data_version TEXT NOT NULL,
		seen_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (data_version, source_row)
	)`,
}

// 背景：首次运行自动创建所需表与索引
// 约束：使用 IF NOT EXISTS，重复执行无副作用
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range Statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
