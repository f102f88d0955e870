package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/Kairi/gemini/internal/gateway"
	"github.com/Kairi/gemini/internal/gemini"
)

func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...gemini.Option) *gemini.Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append(opts, gemini.WithClientOptions(option.WithEndpoint(srv.URL)))
	return gemini.New(opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	return req
}

func textReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
}

func request(history ...gateway.Turn) gateway.Request {
	return gateway.Request{
		APIKey:  "test-key",
		Model:   "gemini-pro",
		History: history,
		Prompt:  "Hello",
		Params:  gateway.DefaultParams(),
		Safety:  gateway.DefaultSafetyPolicy(),
	}
}

func TestGenerate_SinglePrompt(t *testing.T) {
	var got map[string]any
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		got = readBody(t, r)
		writeJSON(t, w, http.StatusOK, textReply("hi"))
	})

	text, err := p.Generate(context.Background(), request())
	require.NoError(t, err)
	require.Equal(t, "hi", text)

	contents, ok := got["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	first := contents[0].(map[string]any)
	parts := first["parts"].([]any)
	assert.Equal(t, "Hello", parts[0].(map[string]any)["text"])

	safety, ok := got["safetySettings"].([]any)
	require.True(t, ok)
	require.Len(t, safety, 4)
	for _, s := range safety {
		// BLOCK_MEDIUM_AND_ABOVE
		assert.EqualValues(t, 2, s.(map[string]any)["threshold"])
	}

	cfg, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2048, cfg["maxOutputTokens"])
	assert.InDelta(t, 0.7, cfg["temperature"], 1e-6)
}

func TestGenerate_SendsHistory(t *testing.T) {
	var got map[string]any
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = readBody(t, r)
		writeJSON(t, w, http.StatusOK, textReply("Paris, still."))
	})

	text, err := p.Generate(context.Background(), request(
		gateway.Turn{Role: gateway.RoleUser, Text: "Capital of France?"},
		gateway.Turn{Role: gateway.RoleModel, Text: "Paris."},
	))
	require.NoError(t, err)
	require.Equal(t, "Paris, still.", text)

	contents, ok := got["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 3)

	var roles, texts []string
	for _, c := range contents {
		m := c.(map[string]any)
		roles = append(roles, m["role"].(string))
		part := m["parts"].([]any)[0].(map[string]any)
		texts = append(texts, part["text"].(string))
	}
	assert.Equal(t, []string{"user", "model", "user"}, roles)
	assert.Equal(t, []string{"Capital of France?", "Paris.", "Hello"}, texts)
}

func TestGenerate_ServerError(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"code":    400,
				"message": "API key not valid. Please pass a valid API key.",
				"status":  "INVALID_ARGUMENT",
			},
		})
	})

	_, err := p.Generate(context.Background(), request())
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to send message to Gemini")
	require.ErrorContains(t, err, "API key not valid")
}

func TestGenerate_TokenSource(t *testing.T) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, textReply("ok"))
	}, gemini.WithTokenSource(ts))

	req := request()
	req.APIKey = ""
	text, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "ok", text)
}

func TestGenerate_NoCredentials(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without credentials")
	})

	req := request()
	req.APIKey = ""
	_, err := p.Generate(context.Background(), req)
	require.Error(t, err)
}
