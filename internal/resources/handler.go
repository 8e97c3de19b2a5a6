// internal/resources/handler.go
package resources

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sentra/pkg/middleware"
	"sentra/pkg/problems"
)

// RegisterPublicHTTP mounts the endpoints that need no authentication.
func RegisterPublicHTTP(r chi.Router, svc *Service) {
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/resources", func(w http.ResponseWriter, req *http.Request) {
			list, err := svc.PublicResources(req.Context())
			if err != nil {
				problems.Write(w, http.StatusInternalServerError, "store-error", "Storage failure", "Could not list public resources")
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(list))
		})
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
		})
		r.Get("/info", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"name":        "sentra",
				"description": "ownership and visibility based resource authorization",
			})
		})
	})
}

// RegisterUserHTTP mounts the resource CRUD endpoints. The router gates the
// whole subtree on the caller's ROLE_USER authority; per-resource ownership
// and visibility rules are enforced by the service underneath.
func RegisterUserHTTP(r chi.Router, svc *Service) {
	r.Route("/api/user/resources", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			list, err := svc.MyResources(req.Context(), caller)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(list))
		})
		r.Get("/all", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			list, err := svc.AllResources(req.Context(), caller)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(list))
		})
		r.Get("/role/{role}", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			list, err := svc.ByRequiredRole(req.Context(), caller, chi.URLParam(req, "role"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(list))
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			res, err := svc.GetByID(req.Context(), caller, chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			var body Resource
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				problems.Write(w, http.StatusBadRequest, "bad-request", "Malformed body", "Request body is not valid JSON")
				return
			}
			res, err := svc.Create(req.Context(), caller, body)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, res)
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			var body Resource
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				problems.Write(w, http.StatusBadRequest, "bad-request", "Malformed body", "Request body is not valid JSON")
				return
			}
			res, err := svc.Update(req.Context(), caller, chi.URLParam(req, "id"), body)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			caller := middleware.CallerFrom(req.Context())
			if err := svc.Delete(req.Context(), caller, chi.URLParam(req, "id")); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		problems.Write(w, http.StatusNotFound, "not-found", "Resource not found", "No resource with that id is available to you")
	case errors.Is(err, ErrDenied):
		problems.Write(w, http.StatusForbidden, "forbidden", "Access denied", "You may not perform this operation on this resource")
	case errors.Is(err, ErrUnauthenticated):
		problems.Write(w, http.StatusUnauthorized, "unauthenticated", "Authentication required", "This operation requires a valid bearer token")
	default:
		problems.Write(w, http.StatusInternalServerError, "store-error", "Storage failure", "The resource store reported an error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func emptyIfNil(list []Resource) []Resource {
	if list == nil {
		return []Resource{}
	}
	return list
}
