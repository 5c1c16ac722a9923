package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		resp := s.do(t, method, "/api/content", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, method)
		assert.Equal(t, "Unauthorized", resp.Body["error"], method)
	}

	resp := s.do(t, http.MethodGet, "/api/content", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

// Register, verify manually, log in, create content, then try to edit it as someone else.
func TestAliceAndBobScenario(t *testing.T) {
	if !verificationBypassCompiled {
		t.Skip("verification bypass is compiled out of release builds")
	}
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "Password1", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, true, resp.Body["requiresEmailVerification"])

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Password1"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body["error"], "Please verify your email")

	resp = s.do(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Password1"})
	require.Equal(t, http.StatusOK, resp.Code)
	aliceToken := resp.Body["token"].(string)
	require.NotEmpty(t, aliceToken)

	resp = s.do(t, http.MethodPost, "/api/content", aliceToken, map[string]any{"title": "T", "type": "text", "source": "ChatGPT"})
	require.Equal(t, http.StatusCreated, resp.Code)
	content := resp.Body["content"].(map[string]any)
	id := content["id"].(string)
	require.NotEmpty(t, id)

	bobToken := s.signup(t, "bob@example.com", "Password1", "Bob")

	resp = s.do(t, http.MethodPut, "/api/content", bobToken, map[string]any{"id": id, "title": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Content not found", resp.Body["error"])

	resp = s.do(t, http.MethodDelete, "/api/content?id="+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(t, http.MethodGet, "/api/content", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Body["content"])

	resp = s.do(t, http.MethodGet, "/api/content", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	items := resp.Body["content"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "T", items[0].(map[string]any)["title"])
}

func TestContentCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "alice@example.com", "Password1", "Alice")

	resp := s.do(t, http.MethodPost, "/api/content", token, map[string]any{"title": "T", "type": "text"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Title, type, and source are required", resp.Body["error"])

	resp = s.do(t, http.MethodPost, "/api/content", token, map[string]any{
		"title":  "ChatGPT: Marketing Strategy",
		"type":   "chat",
		"source": "ChatGPT",
		"tags":   []string{"marketing", "saas"},
		"conversation": []map[string]string{
			{"role": "user", "message": "Help me plan", "timestamp": "10:30 AM"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Content created successfully", resp.Body["message"])
	chat := resp.Body["content"].(map[string]any)
	assert.Len(t, chat["conversation"], 1)

	resp = s.do(t, http.MethodPost, "/api/content", token, map[string]any{
		"title": "Pandas script", "type": "code", "source": "Claude", "codeLanguage": "python",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	code := resp.Body["content"].(map[string]any)
	assert.Equal(t, []any{}, code["tags"])

	resp = s.do(t, http.MethodGet, "/api/content?q=SAAS", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Body["content"], 1)

	resp = s.do(t, http.MethodGet, "/api/content?type=code", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Body["content"], 1)

	resp = s.do(t, http.MethodGet, "/api/content?type=all", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Body["content"], 2)

	resp = s.do(t, http.MethodPut, "/api/content", token, map[string]any{"title": "No id"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Content ID is required", resp.Body["error"])

	resp = s.do(t, http.MethodPut, "/api/content", token, map[string]any{"id": code["id"], "isPublic": true, "tags": []string{"python"}})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := resp.Body["content"].(map[string]any)
	assert.Equal(t, true, updated["isPublic"])
	assert.Equal(t, "Pandas script", updated["title"])
	assert.Equal(t, []any{"python"}, updated["tags"])

	resp = s.do(t, http.MethodDelete, "/api/content", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = s.do(t, http.MethodDelete, "/api/content?id="+code["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Content deleted successfully", resp.Body["message"])

	resp = s.do(t, http.MethodDelete, "/api/content?id="+code["id"].(string), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
