package instagram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"igbatch/pkg/config"
	"igbatch/pkg/logger"
	"igbatch/pkg/ratelimit"
	"igbatch/pkg/retry"
)

// mockInstagram simulates the Instagram web endpoints used by Client
type mockInstagram struct {
	server *httptest.Server

	mu            sync.Mutex
	requests      map[string]int
	loginResult   map[string]interface{}
	loginStatus   int
	profiles      map[string]map[string]interface{}
	followers     map[string][][]map[string]interface{}
	following     map[string][][]map[string]interface{}
	media         map[string][][]map[string]interface{}
	locations     map[string][2]float64
	failNext      map[string]int
	lastLoginForm map[string]string
}

func newMockInstagram(t *testing.T) *mockInstagram {
	m := &mockInstagram{
		requests:    make(map[string]int),
		loginResult: map[string]interface{}{"authenticated": true, "user": true, "userId": "1", "status": "ok"},
		loginStatus: http.StatusOK,
		profiles:    make(map[string]map[string]interface{}),
		followers:   make(map[string][][]map[string]interface{}),
		following:   make(map[string][][]map[string]interface{}),
		media:       make(map[string][][]map[string]interface{}),
		locations:   make(map[string][2]float64),
		failNext:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/login/", m.handleLoginPage)
	mux.HandleFunc("/accounts/login/ajax/", m.handleLogin)
	mux.HandleFunc("/api/v1/users/web_profile_info/", m.handleProfile)
	mux.HandleFunc("/api/v1/friendships/", m.handleFriendships)
	mux.HandleFunc("/graphql/query/", m.handleMedia)
	mux.HandleFunc("/explore/locations/", m.handleLocation)

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

// client returns a Client pointed at the mock with pacing and backoff disabled
func (m *mockInstagram) client(t *testing.T) *Client {
	cfg := config.DefaultConfig()
	cfg.Instagram.PageSize = 2

	c := NewClient(cfg, logger.NewTestLogger())
	c.SetBaseURL(m.server.URL)
	c.SetRateLimiter(ratelimit.NewTokenBucket(600000, 1000))
	c.SetRetryConfig(&retry.Config{MaxAttempts: 3, Backoff: &retry.ConstantBackoff{}})
	return c
}

func (m *mockInstagram) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[key]
}

// hit records a request and reports a queued failure status, if any
func (m *mockInstagram) hit(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
	if status := m.failNext[key]; status != 0 {
		delete(m.failNext, key)
		return status
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (m *mockInstagram) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	m.hit("login_page")
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf-abc", Path: "/"})
	w.Write([]byte("<html></html>"))
}

func (m *mockInstagram) handleLogin(w http.ResponseWriter, r *http.Request) {
	m.hit("login")
	if r.Method != http.MethodPost || r.Header.Get("X-CSRFToken") != "csrf-abc" {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"status": "fail", "message": "CSRF token missing"})
		return
	}
	r.ParseForm()

	m.mu.Lock()
	m.lastLoginForm = map[string]string{
		"username":     r.PostForm.Get("username"),
		"enc_password": r.PostForm.Get("enc_password"),
	}
	result, status := m.loginResult, m.loginStatus
	m.mu.Unlock()

	if auth, _ := result["authenticated"].(bool); auth {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "session-xyz", Path: "/"})
	}
	writeJSON(w, status, result)
}

func (m *mockInstagram) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if status := m.hit("profile:" + username); status != 0 {
		writeJSON(w, status, map[string]interface{}{"status": "fail"})
		return
	}

	m.mu.Lock()
	user, ok := m.profiles[username]
	m.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"status": "fail", "message": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{"user": user}, "status": "ok"})
}

// handleFriendships serves /api/v1/friendships/<id>/<followers|following>/
func (m *mockInstagram) handleFriendships(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 5 {
		http.NotFound(w, r)
		return
	}
	userID, kind := parts[3], parts[4]
	m.hit(kind + ":" + userID)

	m.mu.Lock()
	pages := m.followers[userID]
	if kind == "following" {
		pages = m.following[userID]
	}
	m.mu.Unlock()

	page := 0
	if maxID := r.URL.Query().Get("max_id"); maxID != "" {
		page, _ = strconv.Atoi(maxID)
	}
	if page >= len(pages) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"users": []interface{}{}, "status": "ok"})
		return
	}

	resp := map[string]interface{}{"users": pages[page], "status": "ok"}
	if page+1 < len(pages) {
		resp["next_max_id"] = page + 1
	}
	writeJSON(w, http.StatusOK, resp)
}

func (m *mockInstagram) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("query_hash") != MediaQueryHash {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var variables struct {
		ID    string `json:"id"`
		First int    `json:"first"`
		After string `json:"after"`
	}
	if err := json.Unmarshal([]byte(r.URL.Query().Get("variables")), &variables); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if status := m.hit("media:" + variables.ID); status != 0 {
		writeJSON(w, status, map[string]interface{}{"status": "fail"})
		return
	}

	m.mu.Lock()
	pages := m.media[variables.ID]
	m.mu.Unlock()

	page := 0
	if variables.After != "" {
		page, _ = strconv.Atoi(strings.TrimPrefix(variables.After, "cursor-"))
	}

	edges := []map[string]interface{}{}
	if page < len(pages) {
		for _, node := range pages[page] {
			edges = append(edges, map[string]interface{}{"node": node})
		}
	}
	hasNext := page+1 < len(pages)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"edge_owner_to_timeline_media": map[string]interface{}{
					"count":     len(pages),
					"page_info": map[string]interface{}{"has_next_page": hasNext, "end_cursor": "cursor-" + strconv.Itoa(page+1)},
					"edges":     edges,
				},
			},
		},
		"status": "ok",
	})
}

func (m *mockInstagram) handleLocation(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/explore/locations/"), "/")
	m.hit("location:" + id)

	m.mu.Lock()
	coords, ok := m.locations[id]
	m.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"native_location_data": map[string]interface{}{
			"location_info": map[string]interface{}{"lat": coords[0], "lng": coords[1]},
		},
	})
}
