// Package prompt 管理内置系统提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptStoryContinueV1 PromptID = "story_continue_v1"
	PromptImagePromptV1   PromptID = "image_prompt_v1"
)

// Registry 缓存已解析的模板
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// System 渲染指定模板的系统提示词
func (r *Registry) System(ctx context.Context, id PromptID, vars map[string]any) (string, error) {
	tpl, err := r.chatTemplate(id)
	if err != nil {
		return "", err
	}
	if vars == nil {
		vars = map[string]any{}
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("failed to format prompt %s: %w", id, err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("prompt %s rendered no messages", id)
	}
	return strings.TrimSpace(msgs[0].Content), nil
}

func (r *Registry) chatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	system, err := readEmbeddedText(fmt.Sprintf("templates/%s.system.txt", id))
	if err != nil {
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}

	tpl := einoprompt.FromMessages(schema.FString, schema.SystemMessage(system))
	r.cache[id] = tpl
	return tpl, nil
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
