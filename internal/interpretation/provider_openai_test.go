package interpretation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/numerology"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1710000000,
		"model":   "gpt-4-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	})
	return string(body)
}

func newOpenAITestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-4-turbo",
		MaxTokens:   2000,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}, mustPrompt(t))
}

func TestOpenAIProviderGenerate(t *testing.T) {
	var got map[string]any
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("1. **Caminho de Vida**: Comunicação.\n\n7. **Ritual Diário**: Escreva.")))
	})

	bd, _ := numerology.NewBirthDate(1990, 5, 15)
	n, err := provider.Generate(context.Background(), Subject{FullName: "Maria Silva", BirthDate: bd, CurrentDate: time.Now()}, result)
	require.NoError(t, err)
	assert.Equal(t, "Comunicação.", n.LifePathMeaning)
	assert.Equal(t, "Escreva.", n.DailyRitual)

	assert.Equal(t, "gpt-4-turbo", got["model"])
	assert.Equal(t, float64(2000), got["max_tokens"])
	assert.Equal(t, 0.7, got["temperature"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestOpenAIProviderErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`))
		})
		_, err := provider.Generate(context.Background(), Subject{}, result)
		assert.Error(t, err)
	})

	t.Run("unstructured answer", func(t *testing.T) {
		provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody("Não sei.")))
		})
		_, err := provider.Generate(context.Background(), Subject{}, result)
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}
