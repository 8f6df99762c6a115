// Package service provides the OCR engine and upload archive.
package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// waitDelay bounds how long a killed tool may hold its output pipes.
const waitDelay = 2 * time.Second

// Engine extracts text from a PDF.
type Engine interface {
	Extract(ctx context.Context, pdf []byte) (string, error)
}

// CommandEngineConfig names the binaries and recognition settings.
type CommandEngineConfig struct {
	PdftoppmPath  string
	TesseractPath string
	Language      string
	DPI           int
}

// CommandEngine rasterizes pages with pdftoppm and recognizes each with tesseract.
type CommandEngine struct {
	cfg CommandEngineConfig
}

// NewCommandEngine creates a CommandEngine, filling unset fields with defaults.
func NewCommandEngine(cfg CommandEngineConfig) *CommandEngine {
	if cfg.PdftoppmPath == "" {
		cfg.PdftoppmPath = "pdftoppm"
	}
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	return &CommandEngine{cfg: cfg}
}

// Extract writes pdf to a scratch directory, rasterizes it and returns the
// recognized text of every page in page order, each followed by a newline.
// Any tool failure is reported as ErrEngineUnavailable.
func (e *CommandEngine) Extract(ctx context.Context, pdf []byte) (string, error) {
	workDir, err := os.MkdirTemp("", "bizdata-ocr-*")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create work dir: %w", ocrDomain.ErrEngineUnavailable, err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()

	input := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return "", fmt.Errorf("%w: failed to write input: %w", ocrDomain.ErrEngineUnavailable, err)
	}

	prefix := filepath.Join(workDir, "page")
	if _, err := e.run(ctx, e.cfg.PdftoppmPath, "-r", strconv.Itoa(e.cfg.DPI), "-png", input, prefix); err != nil {
		return "", err
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ocrDomain.ErrEngineUnavailable, err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no pages rendered", ocrDomain.ErrEngineUnavailable)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order
	sort.Strings(pages)

	var text strings.Builder
	for _, page := range pages {
		out, err := e.run(ctx, e.cfg.TesseractPath, page, "stdout", "-l", e.cfg.Language)
		if err != nil {
			return "", err
		}
		text.Write(out)
		text.WriteString("\n")
	}

	return text.String(), nil
}

func (e *CommandEngine) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ocrDomain.ErrEngineUnavailable, filepath.Base(name), ctxErr)
		}
		return nil, fmt.Errorf(
			"%w: %s failed: %w: %s",
			ocrDomain.ErrEngineUnavailable,
			filepath.Base(name),
			err,
			strings.TrimSpace(stderr.String()),
		)
	}
	return stdout.Bytes(), nil
}
