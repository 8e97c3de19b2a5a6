// internal/identity/handler.go
package identity

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"sentra/pkg/middleware"
)

var startedAt = time.Now()

// RegisterProfileHTTP mounts the caller profile endpoint under /api/user.
// The profile is served from the identity cache, falling back to the token
// identity alone when the provider has no record or is unreachable.
func RegisterProfileHTTP(r chi.Router, svc *Service) {
	r.Get("/api/user/profile", func(w http.ResponseWriter, req *http.Request) {
		caller := middleware.CallerFrom(req.Context())
		if u := svc.GetUser(req.Context(), caller.Subject); u != nil {
			writeJSON(w, map[string]any{
				"id":        u.ID,
				"username":  u.Username,
				"email":     u.Email,
				"firstName": u.FirstName,
				"lastName":  u.LastName,
				"enabled":   u.Enabled,
				"roles":     caller.Authorities.List(),
			})
			return
		}
		writeJSON(w, map[string]any{
			"id":    caller.Subject,
			"roles": caller.Authorities.List(),
		})
	})
}

// RegisterAdminHTTP mounts the identity administration endpoints. The caller
// is already gated on ROLE_ADMIN at the router level.
func RegisterAdminHTTP(r chi.Router, svc *Service) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/users/sync", func(w http.ResponseWriter, req *http.Request) {
			count := svc.RefreshAll(req.Context())
			writeJSON(w, map[string]any{
				"success": true,
				"message": "Users synchronized successfully",
				"count":   count,
			})
		})
		r.Delete("/users/cache", func(w http.ResponseWriter, _ *http.Request) {
			svc.ClearAll()
			writeJSON(w, map[string]any{
				"success": true,
				"message": "User cache cleared successfully",
			})
		})
		r.Delete("/users/cache/{userId}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "userId")
			svc.ClearUser(id)
			writeJSON(w, map[string]any{
				"success": true,
				"message": "User cache cleared for user: " + id,
			})
		})
		r.Get("/system/info", func(w http.ResponseWriter, _ *http.Request) {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			writeJSON(w, map[string]any{
				"uptime":     time.Since(startedAt).String(),
				"goVersion":  runtime.Version(),
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]any{
					"alloc": mem.Alloc,
					"sys":   mem.Sys,
				},
				"processors": runtime.NumCPU(),
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
