package story

import (
	"fmt"
	"reflect"
	"testing"

	"z-story-ai-api/internal/domain/entity"
)

func TestFormatHistory(t *testing.T) {
	tests := []struct {
		name    string
		history []entity.Message
		want    []entity.ChatTurn
	}{
		{
			name:    "empty history",
			history: nil,
			want:    []entity.ChatTurn{{Role: entity.RoleUser, Content: "An empty placeholder image"}},
		},
		{
			name:    "single message",
			history: []entity.Message{{Author: "Alice", Content: "Hi"}},
			want:    []entity.ChatTurn{{Role: entity.RoleUser, Content: "Alice: Hi"}},
		},
		{
			name: "odd length starts with user",
			history: []entity.Message{
				{Author: "Alice", Content: "a"},
				{Author: "narrator", Content: "b"},
				{Author: "", Content: "c"},
			},
			want: []entity.ChatTurn{
				{Role: entity.RoleUser, Content: "Alice: a"},
				{Role: entity.RoleAssistant, Content: "narrator: b"},
				{Role: entity.RoleUser, Content: "c"},
			},
		},
		{
			name: "even length starts with assistant",
			history: []entity.Message{
				{Author: "a", Content: "1"},
				{Author: "b", Content: "2"},
				{Author: "c", Content: "3"},
				{Author: "d", Content: "4"},
			},
			want: []entity.ChatTurn{
				{Role: entity.RoleAssistant, Content: "a: 1"},
				{Role: entity.RoleUser, Content: "b: 2"},
				{Role: entity.RoleAssistant, Content: "c: 3"},
				{Role: entity.RoleUser, Content: "d: 4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatHistory(tt.history)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatHistory() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatHistoryAlternatesAndEndsWithUser(t *testing.T) {
	for n := 1; n <= 9; n++ {
		history := make([]entity.Message, n)
		for i := range history {
			history[i] = entity.Message{Author: fmt.Sprintf("p%d", i), Content: "x"}
		}

		got := FormatHistory(history)
		if len(got) != n {
			t.Fatalf("n=%d: len = %d", n, len(got))
		}
		if got[n-1].Role != entity.RoleUser {
			t.Errorf("n=%d: last role = %s, want user", n, got[n-1].Role)
		}
		for i := 1; i < n; i++ {
			if got[i].Role == got[i-1].Role {
				t.Errorf("n=%d: roles at %d and %d are both %s", n, i-1, i, got[i].Role)
			}
		}
	}
}

func TestFormatHistoryIsPure(t *testing.T) {
	history := []entity.Message{{Author: "Alice", Content: "Hi"}, {Author: "Bob", Content: "Yo"}}
	snapshot := append([]entity.Message(nil), history...)

	first := FormatHistory(history)
	second := FormatHistory(history)

	if !reflect.DeepEqual(history, snapshot) {
		t.Errorf("history mutated: %+v", history)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("non-deterministic output: %+v vs %+v", first, second)
	}
}
