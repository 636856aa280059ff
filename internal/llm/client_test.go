package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatClientSendsSystemAndUserMessages(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "api_operator"}},
			},
		})
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model"})
	out, err := c.CompleteWithSystem(context.Background(), "you are a router", "route this")
	require.NoError(t, err)
	require.Equal(t, "api_operator", out)

	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "test-model", gotBody["model"])
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	require.Equal(t, "system", msgs[0].(map[string]any)["role"])
	require.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestChatClientErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusBadGateway)
			},
		},
		{
			name: "api error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "invalid key", "type": "auth"},
				})
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewChatClient(ChatConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
			_, err := c.Complete(context.Background(), "hi")
			require.Error(t, err)
		})
	}
}

func TestMockClientQueue(t *testing.T) {
	m := NewMockClient("one", "two")

	got, err := m.Complete(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "one", got)

	got, err = m.CompleteWithSystem(context.Background(), "sys", "b")
	require.NoError(t, err)
	require.Equal(t, "two", got)
	require.Zero(t, m.Remaining())

	require.Equal(t, []string{"a", "b"}, m.Calls)
}
