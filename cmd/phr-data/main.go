package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/config"
	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
	"github.com/Michael-Nesci/cps510-patient-db/internal/export"
	"github.com/Michael-Nesci/cps510-patient-db/internal/logger"
	"github.com/Michael-Nesci/cps510-patient-db/internal/repository"
	"github.com/Michael-Nesci/cps510-patient-db/internal/schema"
	"github.com/Michael-Nesci/cps510-patient-db/internal/seed"
	"github.com/Michael-Nesci/cps510-patient-db/internal/service"
	"github.com/Michael-Nesci/cps510-patient-db/internal/store"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: phr-data <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  setup                       create tables, load reference data, create views")
	fmt.Fprintln(os.Stderr, "  teardown                    drop views then tables")
	fmt.Fprintln(os.Stderr, "  create-schema | drop-schema")
	fmt.Fprintln(os.Stderr, "  seed")
	fmt.Fprintln(os.Stderr, "  create-views | drop-views")
	fmt.Fprintln(os.Stderr, "  report <id> [args]          run a report and print it")
	fmt.Fprintln(os.Stderr, "  export <id> <file> [args]   run a report and write it as xlsx")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "reports:")
	for _, id := range service.ReportIDs() {
		switch id {
		case service.ReportDaySchedule:
			fmt.Fprintf(os.Stderr, "  %s <doctor-id> <YYYY-MM-DD>\n", id)
		case service.ReportPrescriptionHistory:
			fmt.Fprintf(os.Stderr, "  %s <patient-id>\n", id)
		case service.ReportSharedPatients:
			fmt.Fprintf(os.Stderr, "  %s [<doctor-id> <doctor-id>]\n", id)
		default:
			fmt.Fprintf(os.Stderr, "  %s\n", id)
		}
	}
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "phr-data")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, dialect, err := database.Open(cfg)
	if err != nil {
		log.Error("database open failed", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var kv store.KV
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		kv = store.NewRedisKV(redisClient)
	}

	svc := service.NewLifecycleService(
		schema.NewManager(db, dialect, log),
		seed.NewLoader(db, log),
		repository.NewSQLReportsRepository(db),
		kv,
		cfg.ReportCacheTTL,
		log,
	)

	ctx := context.Background()

	switch cmd := os.Args[1]; cmd {
	case "setup":
		err = svc.Setup(ctx)
	case "teardown":
		err = svc.Teardown(ctx)
	case "create-schema":
		err = svc.CreateSchema(ctx)
	case "drop-schema":
		err = svc.DropSchema(ctx)
	case "seed":
		err = svc.Seed(ctx)
	case "create-views":
		err = svc.CreateViews(ctx)
	case "drop-views":
		err = svc.DropViews(ctx)

	case "report":
		if len(os.Args) < 3 {
			usage()
		}
		var rs *domain.ResultSet
		rs, err = svc.RunReport(ctx, os.Args[2], os.Args[3:]...)
		if err == nil {
			printResultSet(rs)
		}

	case "export":
		if len(os.Args) < 4 {
			usage()
		}
		var rs *domain.ResultSet
		rs, err = svc.RunReport(ctx, os.Args[2], os.Args[4:]...)
		if err == nil {
			var data []byte
			data, err = export.Excel(rs, os.Args[2])
			if err == nil {
				err = os.WriteFile(os.Args[3], data, 0o644)
			}
			if err == nil {
				fmt.Printf("wrote %d rows to %s\n", len(rs.Rows), os.Args[3])
			}
		}

	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// printResultSet 以制表对齐的方式打印报表结果
func printResultSet(rs *domain.ResultSet) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)

	for _, row := range rs.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v == nil {
				fmt.Fprint(w, "NULL")
			} else {
				fmt.Fprintf(w, "%v", v)
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	fmt.Printf("(%d rows)\n", len(rs.Rows))
}
