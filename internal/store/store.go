// 包 store：PostgreSQL 数据访问层，负责设施镜像、未匹配记录与视图统计
package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
)

// BatchSize：批量写入时每个事务提交的行数
const BatchSize = 5000

// Store：数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const insertFacility = `INSERT INTO _facility_records(source_row, district, original_constituency, constituency, facility, ownership, area, sport, lat, lon)
	VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

// 文档注释：用表格整体替换设施镜像
// 背景：导入工具每次全量写入；清表与第一批写入在同一事务内，之后每 BatchSize 行提交一次。
// 约束：中途失败时已提交的批次保留，调用方可重跑导入。
func (s *Store) ReplaceFacilities(ctx context.Context, records []facility.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, "TRUNCATE _facility_records"); err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, insertFacility)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Row, r.District, r.OriginalConstituency, r.Constituency, r.Facility, r.Ownership, r.Area, r.Sport, r.Lat, r.Lon); err != nil {
			return count, err
		}
		count++
		if count%BatchSize == 0 {
			logger.L().Info("facility_import_progress", "count", count)
			_ = stmt.Close()
			if err := tx.Commit(); err != nil {
				return count, err
			}
			if tx, err = s.db.BeginTx(ctx, nil); err != nil {
				return count, err
			}
			if stmt, err = tx.PrepareContext(ctx, insertFacility); err != nil {
				return count, err
			}
		}
	}
	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return count, err
	}
	logger.L().Info("facility_import_done", "count", count)
	return count, nil
}

// CountFacilities：镜像表行数
func (s *Store) CountFacilities(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM _facility_records").Scan(&n)
	return n, err
}

// RecordUnmatched：登记本数据版本下未匹配到选区几何的记录；重复登记只更新时间
func (s *Store) RecordUnmatched(ctx context.Context, version string, records []facility.Record) error {
	for _, r := range records {
		_, err := s.db.ExecContext(ctx, `INSERT INTO _unmatched_records(source_row, constituency, facility, sport, lat, lon, data_version)
			VALUES($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (data_version, source_row) DO UPDATE SET seen_at=now()`,
			r.Row, r.Constituency, r.Facility, r.Sport, r.Lat, r.Lon, version)
		if err != nil {
			return err
		}
	}
	logger.L().Debug("unmatched_recorded", "count", len(records), "version", version)
	return nil
}

// IncrStats：视图请求计数；empty 为 true 时同时累计空结果次数
func (s *Store) IncrStats(ctx context.Context, empty bool) error {
	e := 0
	if empty {
		e = 1
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE _view_stats_total SET total_views=total_views+1, empty_views=empty_views+$1 WHERE id=1", e); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO _view_stats_daily(day, views, empty_views) VALUES(current_date, 1, $1)
		ON CONFLICT (day) DO UPDATE SET views=_view_stats_daily.views+1, empty_views=_view_stats_daily.empty_views+EXCLUDED.empty_views`, e)
	return err
}

// Totals：累计与当日视图次数
type Totals struct {
	Total      int64 `json:"total"`
	TotalEmpty int64 `json:"total_empty"`
	Today      int64 `json:"today"`
}

// GetTotals：读取统计；当日尚无记录时 Today 为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_views, empty_views FROM _view_stats_total WHERE id=1")
	if err := row.Scan(&t.Total, &t.TotalEmpty); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT views FROM _view_stats_daily WHERE day=current_date")
	if err := row2.Scan(&t.Today); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
