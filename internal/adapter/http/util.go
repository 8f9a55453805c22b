package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"nutritrack/internal/adapter/foodapi"
	"nutritrack/internal/app"
	"nutritrack/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("", fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}

// statusForError maps service errors onto the HTTP error taxonomy.
func statusForError(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, app.ErrSessionExpired):
		return http.StatusForbidden
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrMealNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the status for err. Internal failures are logged
// under op and answered with a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusForError(err)
	switch status {
	case http.StatusInternalServerError:
		fields := []zap.Field{zap.String("op", op), zap.Error(err), zap.String("request_id", requestID(r.Context()))}
		if errors.Is(err, foodapi.ErrUpstream) {
			fields = append(fields, zap.Bool("upstream", true))
		}
		s.log.Error("request failed", fields...)
		writeError(w, status, "internal error")
	case http.StatusForbidden:
		http.Error(w, "not logged in", status)
	case http.StatusNotFound:
		writeError(w, status, "not found or not authorized")
	default:
		writeError(w, status, err.Error())
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

func intQuery(r *http.Request, key string) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, domain.Invalid(key, "is required")
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, domain.Invalid(key, "must be an integer")
	}
	return n, nil
}

func floatQuery(r *http.Request, key string) (float64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, domain.Invalid(key, "is required")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, domain.Invalid(key, "must be a number")
	}
	return f, nil
}

// optionalTime parses a body timestamp; empty means absent.
func optionalTime(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(v)
	if err != nil {
		return nil, domain.Invalid(field, err.Error())
	}
	return &t, nil
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// spaFromDisk serves static files from dir and falls back to index.html.
func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}
		if _, err := os.Stat(path.Join(dir, reqPath)); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	})
}
