package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/workflow/port"
)

type fakeChatModel struct {
	calls     int
	responses []*schema.Message
	errs      []error
	lastInput []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	i := m.calls
	m.calls++
	m.lastInput = input
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return nil, nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeFactory struct {
	model *fakeChatModel
	err   error
}

func (f *fakeFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func newRequest() *port.StructuredRequest {
	return &port.StructuredRequest{
		Workflow:   "test",
		System:     "be structured",
		Turns:      []entity.ChatTurn{{Role: entity.RoleAssistant, Content: "a"}, {Role: entity.RoleUser, Content: "b"}},
		SchemaName: "thing",
		Schema:     map[string]any{"type": "object"},
		MaxTokens:  128,
	}
}

func TestStructuredGeneratorDecodes(t *testing.T) {
	m := &fakeChatModel{responses: []*schema.Message{schema.AssistantMessage("```json\n{\"text\":\"ok\"}\n```", nil)}}
	g := NewStructuredGenerator(&fakeFactory{model: m})

	var out struct {
		Text string `json:"text"`
	}
	if err := g.Generate(context.Background(), newRequest(), &out); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.Text != "ok" {
		t.Errorf("text = %q, want ok", out.Text)
	}
	if len(m.lastInput) != 3 {
		t.Fatalf("messages = %d, want 3", len(m.lastInput))
	}
	if m.lastInput[0].Role != schema.System || m.lastInput[1].Role != schema.Assistant || m.lastInput[2].Role != schema.User {
		t.Errorf("unexpected roles: %v %v %v", m.lastInput[0].Role, m.lastInput[1].Role, m.lastInput[2].Role)
	}
}

func TestStructuredGeneratorFallsBackToPromptOnly(t *testing.T) {
	m := &fakeChatModel{
		errs:      []error{errors.New("unknown parameter: response_format"), nil},
		responses: []*schema.Message{nil, schema.AssistantMessage(`{"text":"plain"}`, nil)},
	}
	g := NewStructuredGenerator(&fakeFactory{model: m})

	var out struct {
		Text string `json:"text"`
	}
	if err := g.Generate(context.Background(), newRequest(), &out); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if m.calls != 2 {
		t.Errorf("calls = %d, want 2", m.calls)
	}
	if out.Text != "plain" {
		t.Errorf("text = %q", out.Text)
	}
}

func TestStructuredGeneratorErrors(t *testing.T) {
	tests := []struct {
		name    string
		factory *fakeFactory
	}{
		{name: "factory error", factory: &fakeFactory{err: errors.New("no provider")}},
		{name: "provider error", factory: &fakeFactory{model: &fakeChatModel{errs: []error{errors.New("boom")}}}},
		{name: "empty content", factory: &fakeFactory{model: &fakeChatModel{responses: []*schema.Message{schema.AssistantMessage("  ", nil)}}}},
		{name: "not json", factory: &fakeFactory{model: &fakeChatModel{responses: []*schema.Message{schema.AssistantMessage("hello", nil)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewStructuredGenerator(tt.factory)
			var out map[string]any
			if err := g.Generate(context.Background(), newRequest(), &out); err == nil {
				t.Error("Generate() expected error")
			}
		})
	}
}

func TestBuildMessagesSkipsBlankSystem(t *testing.T) {
	msgs := BuildMessages("  ", []entity.ChatTurn{{Role: entity.RoleUser, Content: "x"}})
	if len(msgs) != 1 || msgs[0].Role != schema.User {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}
