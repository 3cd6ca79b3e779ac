// facility-import：把设施表格全量写入 PostgreSQL 的 _facility_records
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/config"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/migrate"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/store"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/utils"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.FromEnv()
	path := flag.String("file", cfg.FacilityPath, "facility spreadsheet (.xlsx or .csv)")
	sheet := flag.String("sheet", cfg.FacilitySheet, "sheet name, first sheet when empty")
	dry := flag.Bool("dry-run", false, "parse only, do not write")
	flag.Parse()

	t, err := facility.Load(*path, facility.Options{Sheet: *sheet})
	if err != nil {
		l.Error("facility_load_error", "err", err)
		os.Exit(1)
	}
	for _, w := range t.Warnings {
		l.Warn("facility_row_dropped", "detail", w.String())
	}
	if *dry {
		fmt.Printf("parsed %d records, dropped %d rows\n", len(t.Records), len(t.Warnings))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	n, err := store.AttachDB(db).ReplaceFacilities(ctx, t.Records)
	if err != nil {
		l.Error("facility_import_error", "err", err, "written", n)
		os.Exit(1)
	}
	fmt.Printf("imported %d records from %s (dropped %d rows)\n", n, t.Source, len(t.Warnings))
}
