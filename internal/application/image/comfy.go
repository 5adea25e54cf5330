package image

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"z-story-ai-api/internal/domain/entity"
	apperrors "z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
	"z-story-ai-api/pkg/metrics"
	"z-story-ai-api/pkg/tracer"
)

const sourceComfy = "comfy"

// CommandRunner 执行外部命令并返回合并输出
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner 基于 os/exec 的命令执行器
type ExecRunner struct{}

// Run 执行命令，ctx 取消时终止子进程
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ComfyOptions ComfyUI 命令行配置
type ComfyOptions struct {
	Command   string
	Host      string
	Port      int
	OutputDir string
	TempDir   string
	Timeout   time.Duration
}

// ComfyRunner 通过 comfy CLI 执行工作流并上传输出图片
type ComfyRunner struct {
	runner   CommandRunner
	uploader *Uploader
	opts     ComfyOptions

	// 输出目录为共享目录，同一时间只允许一个工作流运行
	slot chan struct{}
}

// NewComfyRunner 创建 ComfyUI 执行器
func NewComfyRunner(runner CommandRunner, uploader *Uploader, opts ComfyOptions) *ComfyRunner {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &ComfyRunner{runner: runner, uploader: uploader, opts: opts, slot: make(chan struct{}, 1)}
}

// RenderWorkflow 序列化工作流，并将占位符替换为 JSON 转义后的提示词
func RenderWorkflow(workflow json.RawMessage, prompt entity.ImagePrompt, positivePlaceholder, negativePlaceholder string) (string, error) {
	// 直接压缩原始字节，避免数值经 float64 往返丢失精度（如 64 位 seed）
	var buf bytes.Buffer
	if err := json.Compact(&buf, workflow); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInvalidParam, "workflow is not valid json")
	}
	out := buf.String()
	if positivePlaceholder != "" {
		out = strings.ReplaceAll(out, positivePlaceholder, jsonEscape(prompt.Positive))
	}
	if negativePlaceholder != "" {
		out = strings.ReplaceAll(out, negativePlaceholder, jsonEscape(prompt.Negative))
	}
	return out, nil
}

// Run 执行渲染好的工作流，返回上传后的预签名地址
func (c *ComfyRunner) Run(ctx context.Context, workflow string) ([]string, error) {
	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), apperrors.CodeWorkflowFailed, "cancelled while waiting for comfy workflow slot")
	}
	defer func() { <-c.slot }()

	start := time.Now()
	ctx, span := tracer.Start(ctx, "image.comfy.run")
	var err error
	defer func() {
		tracer.End(span, err)
		metrics.ImageGenerationDuration.WithLabelValues(sourceComfy).Observe(time.Since(start).Seconds())
	}()

	f, err := os.CreateTemp(c.opts.TempDir, "workflow_*.json")
	if err != nil {
		err = apperrors.Wrap(err, apperrors.CodeWorkflowFailed, "failed to create workflow file")
		return nil, err
	}
	workflowPath := f.Name()
	defer removeFile(ctx, workflowPath)

	_, err = f.WriteString(workflow)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		err = apperrors.Wrap(err, apperrors.CodeWorkflowFailed, "failed to write workflow file")
		return nil, err
	}

	paths, err := c.execute(ctx, workflowPath)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		asset, upErr := c.uploader.UploadFile(ctx, p)
		if upErr != nil {
			metrics.ImageProcessedTotal.WithLabelValues(sourceComfy, "upload", "error").Inc()
			logger.Error(ctx, "failed to upload comfy output image", upErr, "path", p)
		} else {
			metrics.ImageProcessedTotal.WithLabelValues(sourceComfy, "done", "success").Inc()
			urls = append(urls, asset.URL)
		}
		removeFile(ctx, p)
	}

	logger.Info(ctx, "comfy workflow completed", "images", len(paths), "stored", len(urls))
	return urls, nil
}

func (c *ComfyRunner) execute(ctx context.Context, workflowPath string) ([]string, error) {
	timeout := c.opts.Timeout
	if timeout <= 0 {
		timeout = 1200 * time.Second
	}
	// 子进程自身带 --timeout，外层额外留一分钟等待退出
	runCtx, cancel := context.WithTimeout(ctx, timeout+time.Minute)
	defer cancel()

	args := []string{
		"run",
		"--workflow", workflowPath,
		"--wait",
		"--timeout", strconv.Itoa(int(timeout.Seconds())),
		"--port", strconv.Itoa(c.opts.Port),
		"--host", c.opts.Host,
		"--verbose",
	}
	logger.Info(ctx, "starting comfy inference", "workflow", workflowPath)

	out, err := c.runner.Run(runCtx, c.opts.Command, args...)
	if err != nil {
		logger.Error(ctx, "comfy inference failed", err, "output", tail(out, 2048))
		return nil, apperrors.Wrap(err, apperrors.CodeWorkflowFailed, "comfy workflow failed").WithDetail(tail(out, 512))
	}
	logger.Debug(ctx, "comfy inference output", "output", tail(out, 2048))

	paths, err := collectPNGs(c.opts.OutputDir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeWorkflowFailed, "failed to scan comfy output")
	}
	logger.Info(ctx, "comfy output images found", "count", len(paths), "dir", c.opts.OutputDir)
	return paths, nil
}

// collectPNGs 递归收集目录下的 .png 文件
func collectPNGs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".png") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// jsonEscape 返回 s 作为 JSON 字符串字面量时去掉首尾引号的内容
func jsonEscape(s string) string {
	out, err := marshalNoEscape(s)
	if err != nil || len(out) < 2 {
		return s
	}
	return out[1 : len(out)-1]
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
