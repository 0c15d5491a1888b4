package supabase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeProject emulates the slice of GoTrue and PostgREST the driver uses.
type fakeProject struct {
	mu       sync.Mutex
	users    map[string]fakeUser // by email
	tables   map[string][]map[string]any
	idColumn map[string]string
	failREST int // when non-zero, every REST call answers with this status

	minPassword    int  // shorter sign-up passwords get weak_password
	confirmSignups bool // new accounts stay unconfirmed and cannot sign in
}

type fakeUser struct {
	id          string
	password    string
	unconfirmed bool
}

func newFakeProject(t *testing.T) (*fakeProject, *httptest.Server) {
	t.Helper()
	fp := &fakeProject{
		users:    map[string]fakeUser{},
		tables:   map[string][]map[string]any{tableCategories: {}, tableMemos: {}},
		idColumn: map[string]string{tableCategories: "category_id", tableMemos: "memo_id"},
	}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)
	return fp, srv
}

func (fp *fakeProject) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	switch {
	case strings.HasPrefix(r.URL.Path, "/auth/v1/"):
		fp.serveAuth(w, r, strings.TrimPrefix(r.URL.Path, "/auth/v1/"))
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		fp.serveREST(w, r, strings.TrimPrefix(r.URL.Path, "/rest/v1/"))
	default:
		http.NotFound(w, r)
	}
}

func (fp *fakeProject) serveAuth(w http.ResponseWriter, r *http.Request, endpoint string) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	switch endpoint {
	case "signup":
		if _, ok := fp.users[body.Email]; ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"code": 422, "error_code": "user_already_exists", "msg": "User already registered",
			})
			return
		}
		if len(body.Password) < fp.minPassword {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"code": 422, "error_code": "weak_password", "msg": "Password should be at least 6 characters.",
			})
			return
		}
		id := uuid.NewString()
		fp.users[body.Email] = fakeUser{id: id, password: body.Password, unconfirmed: fp.confirmSignups}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "email": body.Email})
	case "token":
		u, ok := fp.users[body.Email]
		if !ok || u.password != body.Password {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant", "error_description": "Invalid login credentials"})
			return
		}
		if u.unconfirmed {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": 400, "error_code": "email_not_confirmed", "msg": "Email not confirmed",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "token-" + u.id,
			"refresh_token": "refresh-" + u.id,
			"token_type":    "bearer",
			"expires_in":    3600,
			"expires_at":    time.Now().Add(time.Hour).Unix(),
			"user":          map[string]any{"id": u.id, "email": body.Email},
		})
	case "logout":
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (fp *fakeProject) serveREST(w http.ResponseWriter, r *http.Request, table string) {
	rows, ok := fp.tables[table]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "42P01", "message": "relation does not exist"})
		return
	}
	if fp.failREST != 0 {
		writeJSON(w, fp.failREST, map[string]any{"code": "PGRST000", "message": "backend unavailable"})
		return
	}
	q := r.URL.Query()
	match := func(row map[string]any) bool {
		for key, vals := range q {
			if key == "select" || key == "order" || key == "limit" || key == "columns" {
				continue
			}
			for _, v := range vals {
				if !strings.HasPrefix(v, "eq.") {
					continue
				}
				if toString(row[key]) != strings.TrimPrefix(v, "eq.") {
					return false
				}
			}
		}
		return true
	}

	switch r.Method {
	case http.MethodGet:
		out := []map[string]any{}
		for _, row := range rows {
			if match(row) {
				out = append(out, row)
			}
		}
		if order := q.Get("order"); order != "" {
			parts := strings.Split(order, ".")
			col, desc := parts[0], len(parts) > 1 && parts[1] == "desc"
			sort.SliceStable(out, func(i, j int) bool {
				a, b := toString(out[i][col]), toString(out[j][col])
				ta, _ := parseTimestamp(a)
				tb, _ := parseTimestamp(b)
				if desc {
					return ta.After(tb)
				}
				return ta.Before(tb)
			})
		}
		if l, err := strconv.Atoi(q.Get("limit")); err == nil && l < len(out) {
			out = out[:l]
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		var row map[string]any
		if err := json.Unmarshal(raw, &row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": err.Error()})
			return
		}
		row[fp.idColumn[table]] = uuid.NewString()
		fp.tables[table] = append(rows, row)
		writeJSON(w, http.StatusCreated, []map[string]any{row})
	case http.MethodPatch:
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		out := []map[string]any{}
		for _, row := range rows {
			if match(row) {
				for k, v := range patch {
					row[k] = v
				}
				out = append(out, row)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodDelete:
		kept := rows[:0]
		for _, row := range rows {
			if !match(row) {
				kept = append(kept, row)
			}
		}
		fp.tables[table] = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
