package api

import (
	"net/http"
	"testing"

	"alcyxob/fitness-tracker/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestRuleMatching(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/", "/", true},
		{"/", "/index.html", false},
		{"/*.html", "/index.html", true},
		{"/*.html", "/docs/index.html", false},
		{"/css/**", "/css", true},
		{"/css/**", "/css/site/main.css", true},
		{"/api/auth/*", "/api/auth/login", true},
		{"/api/auth/*", "/api/auth/a/b", true},
		{"/api/auth/*", "/api/auth", false},
		{"/api/auth/*", "/api/authx/login", false},
		{"/ping", "/ping/", true},
		{"/api/admin/**", "/api/admin/workouts/1", true},
		{"/api/admin/**", "/api/administrator", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			p := NewPolicy(Rule{Pattern: tt.pattern, Require: Public()})
			got := p.Requirement(http.MethodGet, tt.path).Access == AccessPublic
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleMethods(t *testing.T) {
	p := NewPolicy(Rule{Pattern: "/api/workouts/**", Methods: []string{"GET"}, Require: Public()})
	assert.Equal(t, AccessPublic, p.Requirement("get", "/api/workouts").Access)
	assert.Equal(t, AccessAuthenticated, p.Requirement(http.MethodPost, "/api/workouts").Access)
}

func TestPolicyFirstMatchWins(t *testing.T) {
	p := NewPolicy(
		Rule{Pattern: "/api/admin/ping", Require: Public()},
		Rule{Pattern: "/api/admin/**", Require: RequireRole("admin")},
	)
	assert.Equal(t, AccessPublic, p.Requirement(http.MethodGet, "/api/admin/ping").Access)
	assert.Equal(t, RequireRole("admin"), p.Requirement(http.MethodGet, "/api/admin/users"))
}

func TestDefaultPolicyCheck(t *testing.T) {
	user := auth.Identity{Subject: "alice", Role: "user"}
	admin := auth.Identity{Subject: "admin", Role: "admin"}

	tests := []struct {
		name          string
		publicUsers   bool
		method        string
		path          string
		identity      auth.Identity
		authenticated bool
		want          int
	}{
		{name: "login is public", method: "POST", path: "/api/auth/login", want: 0},
		{name: "alternate login is public", method: "POST", path: "/auth/login", want: 0},
		{name: "static page", method: "GET", path: "/index.html", want: 0},
		{name: "swagger", method: "GET", path: "/swagger-ui/index.html", want: 0},
		{name: "ping", method: "GET", path: "/ping", want: 0},
		{name: "workouts need a token", method: "GET", path: "/api/workouts", want: http.StatusUnauthorized},
		{name: "workouts with token", method: "GET", path: "/api/workouts", identity: user, authenticated: true, want: 0},
		{name: "unknown path fails closed", method: "GET", path: "/nowhere", want: http.StatusUnauthorized},
		{name: "admin anonymous", method: "GET", path: "/api/admin/workouts", want: http.StatusUnauthorized},
		{name: "admin as user", method: "GET", path: "/api/admin/workouts", identity: user, authenticated: true, want: http.StatusForbidden},
		{name: "admin as admin", method: "DELETE", path: "/api/admin/exercises/1", identity: admin, authenticated: true, want: 0},
		{name: "users protected by default", method: "GET", path: "/api/users", want: http.StatusUnauthorized},
		{name: "users public variant", publicUsers: true, method: "POST", path: "/api/users", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(DefaultRules(tt.publicUsers)...)
			assert.Equal(t, tt.want, p.Check(tt.method, tt.path, tt.identity, tt.authenticated))
		})
	}
}
