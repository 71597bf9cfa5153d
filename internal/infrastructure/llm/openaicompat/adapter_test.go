package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "hyper_local_search",
					Arguments: `{"query":"Mumbai traffic"}`,
				},
			},
			{
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: "hyper_local_search", Arguments: `{}`},
			},
		},
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ToolCalls, 2)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "hyper_local_search", result.ToolCalls[0].Name)
	assert.Equal(t, `{"query":"Mumbai traffic"}`, result.ToolCalls[0].Arguments)
	assert.Equal(t, "call_1", result.ToolCalls[1].ID)
}

func TestConvertMessages(t *testing.T) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: "You are a scout"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{{ID: "c1", Name: "hyper_local_search", Arguments: "{}"}}},
		{Role: entity.RoleTool, ToolCallID: "c1", Name: "hyper_local_search", Content: "- clear roads..."},
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "system", result[0].Role)
	require.Len(t, result[1].ToolCalls, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[1].ToolCalls[0].Type)
	assert.Equal(t, "tool", result[2].Role)
	assert.Equal(t, "c1", result[2].ToolCallID)
	assert.Equal(t, "- clear roads...", result[2].Content)
}

func TestConvertTools(t *testing.T) {
	tools := []entity.ToolDefinition{
		{Name: "hyper_local_search", Description: "search", Parameters: map[string]interface{}{"type": "object"}},
	}

	result := convertTools(tools)

	require.Len(t, result, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[0].Type)
	assert.Equal(t, "hyper_local_search", result[0].Function.Name)
}

func TestAdapter_Chat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer NA", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"All clear"}}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Logger = logger.NewNop()
	a := NewAdapter(cfg)

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: "status?"}},
		Temperature: 0.1,
	})

	require.NoError(t, err)
	assert.Equal(t, "All clear", resp.Message.Content)
	assert.Equal(t, DefaultModel, got["model"])
	assert.NotContains(t, got, "tools")
	assert.NotContains(t, got, "tool_choice")
}

func TestAdapter_ChatWithTools(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","tool_calls":[{"id":"c1","type":"function","function":{"name":"hyper_local_search","arguments":"{\"query\":\"x\"}"}}]}}]}`))
	}))
	defer srv.Close()

	a := NewAdapter(Config{BaseURL: srv.URL, Model: "qwen2.5:7b"})

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "search"}},
		Tools:    []entity.ToolDefinition{{Name: "hyper_local_search", Parameters: map[string]interface{}{"type": "object"}}},
	})

	require.NoError(t, err)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "hyper_local_search", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, "qwen2.5:7b", got["model"])
	assert.Equal(t, "auto", got["tool_choice"])
}

func TestAdapter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewAdapter(Config{BaseURL: srv.URL})

	_, err := a.Chat(context.Background(), output.ChatRequest{Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}

func TestAdapter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewAdapter(Config{BaseURL: srv.URL}).Chat(context.Background(), output.ChatRequest{})

	assert.ErrorContains(t, err, "no choices")
}
