package image

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"z-story-ai-api/internal/domain/entity"
	apperrors "z-story-ai-api/pkg/errors"
)

type fakeRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

	name     string
	args     []string
	workflow string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	for i, a := range args {
		if a == "--workflow" && i+1 < len(args) {
			b, _ := os.ReadFile(args[i+1])
			f.workflow = string(b)
		}
	}
	if f.RunFunc == nil {
		return nil, nil
	}
	return f.RunFunc(ctx, name, args...)
}

func TestRenderWorkflow(t *testing.T) {
	workflow := json.RawMessage(`{"6":{"inputs":{"text":"POSITIVE"}},"7":{"inputs":{"text":"NEGATIVE"}}}`)
	prompt := entity.ImagePrompt{Positive: `a "quoted" <scene>`, Negative: "blur\nnoise"}

	got, err := RenderWorkflow(workflow, prompt, "POSITIVE", "NEGATIVE")
	if err != nil {
		t.Fatalf("RenderWorkflow() error = %v", err)
	}

	var decoded map[string]map[string]map[string]string
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("rendered workflow is not valid json: %v\n%s", err, got)
	}
	if decoded["6"]["inputs"]["text"] != prompt.Positive {
		t.Errorf("positive = %q", decoded["6"]["inputs"]["text"])
	}
	if decoded["7"]["inputs"]["text"] != prompt.Negative {
		t.Errorf("negative = %q", decoded["7"]["inputs"]["text"])
	}
	if strings.Contains(got, `<`) {
		t.Errorf("html characters escaped: %s", got)
	}
}

func TestRenderWorkflowKeepsLargeIntegers(t *testing.T) {
	workflow := json.RawMessage(`{"3": {"inputs": {"seed": 9007199254740993, "cfg": 7.5, "text": "POS"}}}`)

	got, err := RenderWorkflow(workflow, entity.ImagePrompt{Positive: "a cat"}, "POS", "NEG")
	if err != nil {
		t.Fatalf("RenderWorkflow() error = %v", err)
	}
	want := `{"3":{"inputs":{"seed":9007199254740993,"cfg":7.5,"text":"a cat"}}}`
	if got != want {
		t.Errorf("RenderWorkflow() = %s, want %s", got, want)
	}
}

func TestRenderWorkflowRejectsInvalidJSON(t *testing.T) {
	_, err := RenderWorkflow(json.RawMessage(`{nope`), entity.ImagePrompt{}, "P", "N")
	if !apperrors.IsCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("err = %v, want invalid param", err)
	}
}

func newTestComfy(t *testing.T, runner CommandRunner, store *fakeStore) (*ComfyRunner, string, string) {
	t.Helper()
	out := t.TempDir()
	tmp := t.TempDir()
	c := NewComfyRunner(runner, NewUploader(store, "image-files", time.Hour), ComfyOptions{
		Command:   "comfy",
		Host:      "127.0.0.1",
		Port:      8188,
		OutputDir: out,
		TempDir:   tmp,
		Timeout:   1200 * time.Second,
	})
	return c, out, tmp
}

func TestComfyRunUploadsAndCleansUp(t *testing.T) {
	store := &fakeStore{failBody: "second"}
	runner := &fakeRunner{}
	c, out, tmp := newTestComfy(t, runner, store)

	runner.RunFunc = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		sub := filepath.Join(out, "batch")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, err
		}
		for name, body := range map[string]string{"a.png": "first", "b.PNG": "second", "notes.txt": "skip"} {
			if err := os.WriteFile(filepath.Join(sub, name), []byte(body), 0o600); err != nil {
				return nil, err
			}
		}
		return []byte("done"), nil
	}

	urls, err := c.Run(context.Background(), `{"k":"v"}`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("urls = %v, want 1", urls)
	}
	if runner.name != "comfy" || runner.workflow != `{"k":"v"}` {
		t.Errorf("runner got name=%q workflow=%q", runner.name, runner.workflow)
	}
	wantArgs := []string{"run", "--workflow", "", "--wait", "--timeout", "1200", "--port", "8188", "--host", "127.0.0.1", "--verbose"}
	for i, a := range wantArgs {
		if a != "" && runner.args[i] != a {
			t.Errorf("args[%d] = %q, want %q", i, runner.args[i], a)
		}
	}

	// 两张 png 均被删除（无论上传是否成功），非 png 保留
	for _, name := range []string{"a.png", "b.PNG"} {
		if _, err := os.Stat(filepath.Join(out, "batch", name)); !os.IsNotExist(err) {
			t.Errorf("%s not removed", name)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "batch", "notes.txt")); err != nil {
		t.Errorf("non-png file removed: %v", err)
	}
	assertEmptyDir(t, tmp)
}

func TestComfyRunCommandFailure(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{RunFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("CUDA out of memory"), errors.New("exit status 1")
	}}
	c, _, tmp := newTestComfy(t, runner, store)

	_, err := c.Run(context.Background(), `{}`)
	if !apperrors.IsCode(err, apperrors.CodeWorkflowFailed) {
		t.Fatalf("err = %v, want workflow failed", err)
	}
	if appErr := apperrors.AsAppError(err); !strings.Contains(appErr.Detail, "CUDA out of memory") {
		t.Errorf("detail = %q", appErr.Detail)
	}
	if len(store.calls) != 0 {
		t.Errorf("storage touched: %v", store.calls)
	}
	assertEmptyDir(t, tmp)
}

func TestComfyRunCancelledWhileWaiting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	runner := &fakeRunner{RunFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		close(started)
		<-release
		return nil, nil
	}}
	c, _, _ := newTestComfy(t, runner, &fakeStore{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), `{}`)
		done <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Run(ctx, `{}`)
	if !apperrors.IsCode(err, apperrors.CodeWorkflowFailed) || !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want cancelled workflow failure", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first Run() error = %v", err)
	}
}

func TestServiceGenerateComfyDisabled(t *testing.T) {
	s := NewService(NewPromptDeriver(&fakeGenerator{}, nil, PromptOptions{}), nil, nil)
	_, err := s.GenerateComfy(context.Background(), &ComfyRequest{Workflow: json.RawMessage(`{}`)})
	if !apperrors.IsCode(err, apperrors.CodeServiceUnavailable) {
		t.Errorf("err = %v, want service unavailable", err)
	}
}

func TestServiceGenerateComfyRejectsBadWorkflowBeforeLLM(t *testing.T) {
	gen := &fakeGenerator{}
	store := &fakeStore{}
	c, _, _ := newTestComfy(t, &fakeRunner{}, store)
	s := NewService(NewPromptDeriver(gen, nil, PromptOptions{}), nil, c)

	_, err := s.GenerateComfy(context.Background(), &ComfyRequest{Workflow: json.RawMessage(`[`)})
	if !apperrors.IsCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("err = %v, want invalid param", err)
	}
	if gen.lastReq != nil {
		t.Error("llm called for invalid workflow")
	}
}

func TestServiceGenerate(t *testing.T) {
	gen := &fakeGenerator{GenerateFunc: sceneResponder(fullScene())}
	provider := &fakeProvider{urls: []string{"https://fal/x"}}
	g, _ := newTestGenerator(t, provider, &fakeDownloader{}, &fakeStore{})
	s := NewService(NewPromptDeriver(gen, nil, PromptOptions{}), g, nil)

	res, err := s.Generate(context.Background(), &GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.URLs) != 1 || res.Prompt != provider.prompt || !strings.HasPrefix(res.Prompt, "oil painting featuring") {
		t.Errorf("result = %+v", res)
	}
}
