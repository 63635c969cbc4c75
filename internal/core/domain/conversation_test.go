package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRole_IsValid(t *testing.T) {
	tests := []struct {
		role  MessageRole
		valid bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{RoleReasoner, true},
		{MessageRole("system"), false},
		{MessageRole(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.role.IsValid())
		})
	}
}

func TestConversation_Append(t *testing.T) {
	base := Conversation{SessionID: "s1"}
	first := AgentMessage{ID: "m1", Role: RoleUser, Content: "hello", CreatedAt: time.Now()}

	updated := base.Append(first)

	// The receiver is unchanged; history is append-only.
	assert.Empty(t, base.Messages)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, first.CreatedAt, updated.StartedAt)

	second := AgentMessage{ID: "m2", Role: RoleAssistant, Content: "hi", CreatedAt: time.Now()}
	final := updated.Append(second)

	require.Len(t, final.Messages, 2)
	assert.Equal(t, "m1", final.Messages[0].ID)
	assert.Equal(t, "m2", final.Messages[1].ID)
	// StartedAt keeps the first message's timestamp.
	assert.Equal(t, first.CreatedAt, final.StartedAt)
}

func TestConversation_Recent(t *testing.T) {
	conv := Conversation{SessionID: "s1"}
	for _, id := range []string{"a", "b", "c", "d"} {
		conv = conv.Append(AgentMessage{ID: id, Role: RoleUser, CreatedAt: time.Now()})
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"subset", 2, []string{"c", "d"}},
		{"all", 4, []string{"a", "b", "c", "d"}},
		{"more than available", 10, []string{"a", "b", "c", "d"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := conv.Recent(tc.n)
			require.Len(t, got, len(tc.want))
			for i, id := range tc.want {
				assert.Equal(t, id, got[i].ID)
			}
		})
	}
}

func TestRetrievalResult_Empty(t *testing.T) {
	assert.True(t, RetrievalResult{}.Empty())
	assert.False(t, RetrievalResult{Passages: []Passage{{Score: 0.5}}}.Empty())
}
