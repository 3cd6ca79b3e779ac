// 包 api：集中注册 HTTP 路由；主入口只负责装配依赖
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/app"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/cache"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/render"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/store"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/version"
)

// StatsStore：视图统计的持久化；未启用数据库时为 nil
type StatsStore interface {
	IncrStats(ctx context.Context, empty bool) error
	GetTotals(ctx context.Context) (*store.Totals, error)
}

// Server：路由依赖
type Server struct {
	State *app.State
	Cache *cache.ViewCache
	Stats StatsStore
	Base  string
}

func selectionFrom(r *http.Request) app.Selection {
	q := r.URL.Query()
	return app.Selection{Constituency: q.Get("constituency"), Sport: q.Get("sport")}.Normalize()
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("content-type", contentType)
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// recordView：统计失败只记日志
func (s *Server) recordView(ctx context.Context, kind string, empty bool) {
	metrics.ViewRequestsTotal.WithLabelValues(kind).Inc()
	if s.Stats == nil {
		return
	}
	if err := s.Stats.IncrStats(ctx, empty); err != nil {
		logger.L().Warn("stats_incr_err", "err", err)
	}
}

// 文档注释：带缓存的视图响应
// 背景：同一数据版本下响应只取决于筛选条件；命中时不再过滤与序列化。
// 约束：空结果标记与响应一起缓存，命中时仍计入统计。
func (s *Server) cachedView(w http.ResponseWriter, r *http.Request, kind, contentType string, encode func(app.View) ([]byte, error)) {
	if !allowRead(w, r) {
		return
	}
	ctx := r.Context()
	sel := selectionFrom(r)
	key := cache.Key(s.State.Version(), kind, sel.Key())
	if b, ok := s.Cache.Get(ctx, key); ok && len(b) > 0 {
		s.recordView(ctx, kind, b[0] == '1')
		writeJSON(w, contentType, b[1:])
		return
	}
	v := s.State.View(sel)
	body, err := encode(v)
	if err != nil {
		logger.L().Error("view_encode_err", "kind", kind, "err", err)
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	flag := byte('0')
	if v.Empty {
		flag = '1'
	}
	s.Cache.Set(ctx, key, append([]byte{flag}, body...))
	s.recordView(ctx, kind, v.Empty)
	writeJSON(w, contentType, body)
}

// 构建并返回 API 路由：在主入口挂载到 API_BASE 前缀
func BuildRoutes(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/view", func(w http.ResponseWriter, r *http.Request) {
		s.cachedView(w, r, "view", "application/json; charset=utf-8", func(v app.View) ([]byte, error) {
			return json.Marshal(v)
		})
	})
	mux.HandleFunc("/geojson", func(w http.ResponseWriter, r *http.Request) {
		s.cachedView(w, r, "geojson", "application/geo+json", func(v app.View) ([]byte, error) {
			return json.Marshal(render.FeatureCollection(v))
		})
	})
	mux.HandleFunc("/options", func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		b, _ := json.Marshal(map[string]any{
			"constituencies": append([]string{app.All}, s.State.ConstituencyOptions()...),
			"sports":         append([]string{app.All}, s.State.SportOptions()...),
		})
		writeJSON(w, "application/json; charset=utf-8", b)
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		out := map[string]any{
			"load":            s.State.Report(),
			"by_constituency": s.State.CountByConstituency(),
			"version":         s.State.Version(),
		}
		if s.Stats != nil {
			t, err := s.Stats.GetTotals(r.Context())
			if err != nil {
				logger.L().Warn("stats_totals_err", "err", err)
			} else {
				out["views"] = t
			}
		}
		b, _ := json.Marshal(out)
		writeJSON(w, "application/json; charset=utf-8", b)
	})
	mux.HandleFunc("/charts/sports", func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		sel := selectionFrom(r)
		v := s.State.View(app.Selection{Constituency: sel.Constituency, Sport: app.All})
		title := sel.Constituency
		if title == app.All {
			title = "All Constituencies"
		}
		var buf bytes.Buffer
		if err := render.SportChart(&buf, v.SportCounts, title); err != nil {
			logger.L().Error("chart_render_err", "err", err)
			writeError(w, http.StatusInternalServerError, "render failed")
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(map[string]any{"status": "ok", "version": s.State.Version(), "commit": version.Commit, "time": time.Now().UTC()})
		writeJSON(w, "application/json; charset=utf-8", b)
	})
	return mux
}

// MapHandler：地图页面，仅响应根路径
func MapHandler(s *Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !allowRead(w, r) {
			return
		}
		v := s.State.View(selectionFrom(r))
		s.recordView(r.Context(), "page", v.Empty)
		var buf bytes.Buffer
		if err := render.MapPage(&buf, v, s.State, s.Base); err != nil {
			logger.L().Error("page_render_err", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
}

// ConfigJS：向前端暴露 API 基础路径与构建版本
func ConfigJS(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(base)
		c, _ := json.Marshal(version.Commit)
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__=" + string(b) + "\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__=" + string(c) + "\n"))
	}
}

// Mount：把页面、API 与指标挂到同一个 ServeMux
func Mount(mux *http.ServeMux, s *Server, metricsHandler http.Handler) {
	mux.Handle(s.Base+"/", http.StripPrefix(s.Base, BuildRoutes(s)))
	mux.Handle(s.Base+"/metrics", metricsHandler)
	mux.HandleFunc("/config.js", ConfigJS(s.Base))
	mux.Handle("/", MapHandler(s))
}
