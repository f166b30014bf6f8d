package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if strings.TrimSpace(generated) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

type stubAgentRepo struct {
	agent *models.Agent
}

func (s *stubAgentRepo) Create(agent *models.Agent) error          { return nil }
func (s *stubAgentRepo) GetByID(id uint) (*models.Agent, error)    { return s.agent, nil }
func (s *stubAgentRepo) GetByEmail(string) (*models.Agent, error)  { return s.agent, nil }
func (s *stubAgentRepo) Update(agent *models.Agent) error          { return nil }
func (s *stubAgentRepo) TouchLastSeen(uint, time.Time) error       { return nil }
func (s *stubAgentRepo) WithTx(*gorm.DB) *repository.GormAgentRepository {
	return nil
}

func mintAgentToken(t *testing.T, secret string, agentID uint) string {
	t.Helper()
	claims := service.AgentJWTClaims{
		AgentID: agentID,
		Email:   "agent@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func agentAuthTestRouter(secret string, repo repository.AgentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AgentJWTAuthMiddleware(secret, repo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"agent_id": c.GetUint("agent_id")})
	})
	return r
}

func TestAgentJWTAuthMiddlewareMissingSecret(t *testing.T) {
	r := agentAuthTestRouter("", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestAgentJWTAuthMiddlewareValidToken(t *testing.T) {
	secret := "middleware-test-secret-0123456789abcdef"
	repo := &stubAgentRepo{agent: &models.Agent{
		ID:     7,
		Email:  "agent@example.com",
		Status: "active",
	}}
	r := agentAuthTestRouter(secret, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintAgentToken(t, secret, 7))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]uint
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["agent_id"] != 7 {
		t.Fatalf("agent_id want 7 got %d", resp["agent_id"])
	}
}

func TestAgentJWTAuthMiddlewareDisabledAgent(t *testing.T) {
	secret := "middleware-test-secret-0123456789abcdef"
	repo := &stubAgentRepo{agent: &models.Agent{
		ID:     8,
		Email:  "agent@example.com",
		Status: "suspended",
	}}
	r := agentAuthTestRouter(secret, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintAgentToken(t, secret, 8))
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestAgentJWTAuthMiddlewareWrongSigningMethod(t *testing.T) {
	secret := "middleware-test-secret-0123456789abcdef"
	repo := &stubAgentRepo{agent: &models.Agent{ID: 9, Status: "active"}}
	r := agentAuthTestRouter(secret, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}
