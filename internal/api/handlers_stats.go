package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleConvertStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stats":          s.orchestrator.Stats(),
		"queue_depth":    s.orchestrator.QueueDepth(),
		"cached_results": s.orchestrator.CachedResults(),
	})
}
