// 程序入口：读取配置、加载数据、装配依赖并启动服务；路由注册在 internal/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/api"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/app"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/cache"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/config"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/middleware"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/migrate"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/store"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/utils"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/version"
)

// loadState：加载设施表与选区几何并建立只读状态；任何数据源错误都是致命的
func loadState(cfg config.Config) (*app.State, error) {
	l := logger.L()
	t, err := facility.Load(cfg.FacilityPath, facility.Options{Sheet: cfg.FacilitySheet})
	if err != nil {
		return nil, err
	}
	l.Info("facility_loaded", "path", cfg.FacilityPath, "records", len(t.Records), "dropped", len(t.Warnings))
	cs, rep, err := geometry.LoadConstituencies(cfg.ConstituencyPath, cfg.ConstituencyNameField)
	if err != nil {
		return nil, err
	}
	return app.Build(t, cs, app.Options{MatchByLocation: cfg.MatchByLocation, Extent: cfg.Extent, Geometry: rep}), nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store.AttachDB(db), nil
}

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	l.Debug("log_init_ok", "commit", version.Commit)
	cfg := config.FromEnv()
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "facility", cfg.FacilityPath, "constituency", cfg.ConstituencyPath)

	st, err := loadState(cfg)
	if err != nil {
		l.Error("data_load_error", "err", err)
		os.Exit(1)
	}

	var rc *redis.Client
	if cfg.RedisEnable {
		rc = utils.OpenRedisFromEnv()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	} else {
		l.Info("redis_disabled")
	}

	srv := &api.Server{
		State: st,
		Cache: cache.NewViewCache(cfg.ViewCacheSize, cfg.ViewCacheTTL, rc),
		Base:  cfg.APIBase,
	}
	if cfg.PGEnable {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ps, err := openStore(ctx)
		cancel()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer ps.Close()
		l.Info("db_open_ok")
		srv.Stats = ps
		go func() {
			if err := ps.RecordUnmatched(context.Background(), st.Version(), st.Unmatched()); err != nil {
				l.Error("unmatched_record_error", "err", err)
			}
		}()
	} else {
		l.Info("db_disabled")
	}

	mux := http.NewServeMux()
	api.Mount(mux, srv, metrics.Handler())
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	hs := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(sctx)
	}()

	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "sportsmap.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = hs.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = hs.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}
