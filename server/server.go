package server

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"plaza/config"
)

// Server 持有唯一房间与 HTTP 路由；状态随实例存在，同一进程可并存多个实例（测试用）
type Server struct {
	cfg      config.Config
	room     *Room
	upgrader websocket.Upgrader
	connOpts ConnOptions
	router   *mux.Router
}

// NewServer 根据配置组装价目表、世界、注册表与房间
func NewServer(cfg config.Config) (*Server, error) {
	catalog, err := loadCatalog(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	validator, err := NewPayloadValidator()
	if err != nil {
		return nil, fmt.Errorf("compiling schemas: %w", err)
	}

	world := NewWorld(cfg.World.Width, cfg.World.Height, cfg.World.SpawnMargin)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	players := NewRegistry(catalog, cfg.Player.StartingCoins, rng)
	st := NewState(players, world, catalog, Limits{
		MaxUsernameLength: cfg.Player.MaxUsernameLength,
		MaxChatLength:     cfg.Chat.MaxLength,
	})

	s := &Server{
		cfg:      cfg,
		room:     NewRoom(st, validator),
		upgrader: newUpgrader(),
		connOpts: ConnOptions{
			SendBuffer:      cfg.Net.SendBuffer,
			PongWait:        cfg.Net.PongWait,
			WriteWait:       cfg.Net.WriteWait,
			MaxMessageBytes: cfg.Net.MaxMessageBytes,
		},
	}
	s.router = s.routes()
	return s, nil
}

// loadCatalog 配置了文件则从文件读取，否则使用内置价目表
func loadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	Log.Infow("loading catalog", "file", path)
	return LoadCatalog(path)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.HandleWS)
	// 管理与监控接口
	r.HandleFunc("/metrics", s.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/admin/world", s.HandleWorld).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.Server.StaticDir != "" {
		// 前后端分离：将 / 映射到静态资源目录
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
	}
	return r
}

// Handler 返回 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Room 返回房间
func (s *Server) Room() *Room {
	return s.room
}

// Run 运行房间事件循环，阻塞直到 ctx 取消
func (s *Server) Run(ctx context.Context) {
	s.room.Run(ctx)
}
