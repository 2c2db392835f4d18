package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatOK(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestOpenAIChatClient_Call(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(chatOK(`{"action":"hold"}`)))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL + "/v1", APIKey: "test-key", Model: "deepseek-chat"}
	out, err := c.Call(context.Background(), ChatPayload{
		System:      "system prompt",
		User:        "user prompt",
		ExpectJSON:  true,
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"action":"hold"}`, out)

	assert.Equal(t, "deepseek-chat", gotBody["model"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	assert.Equal(t, 2000.0, gotBody["max_tokens"])
	rf, _ := gotBody["response_format"].(map[string]any)
	assert.Equal(t, "json_object", rf["type"])
	msgs, _ := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
}

func TestOpenAIChatClient_RetryOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		w.Write([]byte(chatOK("ok")))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "deepseek-chat"}
	out, err := c.Call(context.Background(), ChatPayload{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIChatClient_NonRetryableError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "deepseek-chat"}
	_, err := c.Call(context.Background(), ChatPayload{User: "hi"})
	assert.ErrorContains(t, err, "invalid api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatCompletionsURL(t *testing.T) {
	cases := map[string]string{
		"":                                       "https://api.openai.com/v1/chat/completions",
		"https://api.deepseek.com":               "https://api.deepseek.com/chat/completions",
		"https://api.deepseek.com/":              "https://api.deepseek.com/chat/completions",
		"https://x.ai/v1/chat/completions":       "https://x.ai/v1/chat/completions",
	}
	for in, want := range cases {
		assert.Equal(t, want, chatCompletionsURL(in), in)
	}
}

func TestBuild_ProviderSelection(t *testing.T) {
	t.Run("openai系", func(t *testing.T) {
		for _, kind := range []string{"", "openai", "deepseek", "qwen"} {
			p, err := Build(ModelCfg{Kind: kind, Model: "m"}, 0)
			require.NoError(t, err, kind)
			_, ok := p.(*OpenAIChatClient)
			assert.True(t, ok, kind)
		}
	})

	t.Run("blockrun需要钱包私钥", func(t *testing.T) {
		_, err := Build(ModelCfg{Kind: "blockrun", Model: "m"}, 0)
		assert.Error(t, err)
	})

	t.Run("未知后端", func(t *testing.T) {
		_, err := Build(ModelCfg{Kind: "gemini-magic", Model: "m"}, 0)
		assert.Error(t, err)
	})
}
