package server

import (
	"encoding/json"
	"net/http"
)

// HandleMetrics 输出房间运行指标
// GET /metrics
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	var online int
	if err := s.room.Inspect(r.Context(), func(st *State) { online = st.Players.Len() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	payload := map[string]any{
		"players_online": online,
		"metrics":        s.room.Metrics().Snapshot(),
	}
	writeJSON(w, payload)
}

// HandleWorld 只读查看世界配置、在线玩家与价目表
// 世界尺寸唯一的写入路径是客户端的 updateMapDimensions 命令
// GET /admin/world
func (s *Server) HandleWorld(w http.ResponseWriter, r *http.Request) {
	type worldView struct {
		World   WorldSize     `json:"world"`
		Players []PlayerID    `json:"players"`
		Skins   []CatalogItem `json:"skins"`
		Themes  []CatalogItem `json:"themes"`
	}
	var view worldView
	err := s.room.Inspect(r.Context(), func(st *State) {
		view = worldView{
			World:   st.World.Size(),
			Players: st.Players.IDs(),
			Skins:   st.Catalog.Items(KindSkin),
			Themes:  st.Catalog.Items(KindTheme),
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, view)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
