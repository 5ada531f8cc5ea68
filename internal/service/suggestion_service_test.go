package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsflow/internal/domain"
	"kidsflow/internal/llm"
)

const suggestionsJSON = "```json\n[{\"title\": [\"Why is\", \"the sky blue?\"], \"content\": \"Why is the sky blue?\"}]\n```"

func TestSuggestionService_CachesPerProfile(t *testing.T) {
	up := &fakeUpstream{profiles: []domain.ChildProfile{{ID: "c1", ChildAge: intPtr(9)}}}
	_, resolver, _ := newProfileStack(up)
	client := &llm.MockClient{Response: suggestionsJSON}
	svc := NewSuggestionService(nil, client, "test-model", resolver)

	first := svc.Suggestions(context.Background(), childSess)
	require.Len(t, first, 1)
	assert.Equal(t, [2]string{"Why is", "the sky blue?"}, first[0].Title)

	second := svc.Suggestions(context.Background(), childSess)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), client.Calls.Load())
}

func TestSuggestionService_FailureDegradesToEmpty(t *testing.T) {
	client := &llm.MockClient{Err: errors.New("rate limited")}
	svc := NewSuggestionService(nil, client, "m", nil)

	got := svc.Suggestions(context.Background(), adminSess)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	client.Err = nil
	client.Response = suggestionsJSON
	got = svc.Suggestions(context.Background(), adminSess)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), client.Calls.Load())
}

func TestSuggestionService_UnparseableOutputDegradesToEmpty(t *testing.T) {
	client := &llm.MockClient{Response: "I cannot help with that."}
	svc := NewSuggestionService(nil, client, "m", nil)
	assert.Empty(t, svc.Suggestions(context.Background(), adminSess))
}

func TestSuggestionService_NotConfigured(t *testing.T) {
	svc := NewSuggestionService(nil, nil, "m", nil)
	assert.Empty(t, svc.Suggestions(context.Background(), adminSess))
}

func TestSessionService_LogoutClearsSuggestions(t *testing.T) {
	client := &llm.MockClient{Response: suggestionsJSON}
	up := &fakeUpstream{}
	_, resolver, _ := newProfileStack(up)
	suggestions := NewSuggestionService(nil, client, "m", resolver)
	sessions := NewSessionService(nil, suggestions, resolver)

	suggestions.Suggestions(context.Background(), childSess)
	suggestions.Suggestions(context.Background(), childSess)
	assert.Equal(t, int32(1), client.Calls.Load())

	sessions.Logout(childSess)
	suggestions.Suggestions(context.Background(), childSess)
	assert.Equal(t, int32(2), client.Calls.Load())
}

func TestSessionService_LogoutIsPerUser(t *testing.T) {
	client := &llm.MockClient{Response: suggestionsJSON}
	suggestions := NewSuggestionService(nil, client, "m", nil)
	sessions := NewSessionService(nil, suggestions, nil)

	suggestions.Suggestions(context.Background(), adminSess)
	suggestions.Suggestions(context.Background(), parentSess)
	assert.Equal(t, int32(2), client.Calls.Load())

	sessions.Logout(parentSess)
	suggestions.Suggestions(context.Background(), adminSess)
	assert.Equal(t, int32(2), client.Calls.Load())
}
