// Package genius bridges to the external article extraction and
// summarization services. Both are synchronous subprocess invocations of
// the minmind Python package; stdout carries a single JSON object and a
// non-zero exit surfaces stderr verbatim.
package genius

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/minmind/minmind/internal/models"
)

// Client invokes the Python side of MinMind.
type Client struct {
	PythonDir string // directory containing the minmind package
	DBPath    string // exported as MINMIND_DB for the summarizer
	Provider  string // AI provider name, default "anthropic"
	Binary    string // python interpreter, default "python"
}

// Extraction is the JSON shape returned by the extract command.
type Extraction struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Metadata *ExtractionMeta `json:"metadata"`
}

// ExtractionMeta is the optional source metadata bag.
type ExtractionMeta struct {
	Author      string `json:"author"`
	SiteName    string `json:"site_name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Extract fetches a URL and extracts readable content from it.
func (c *Client) Extract(url string) (*Extraction, error) {
	stdout, err := c.run("extract", url)
	if err != nil {
		return nil, err
	}
	var ex Extraction
	if err := json.Unmarshal(stdout, &ex); err != nil {
		return nil, fmt.Errorf("genius: extract returned malformed JSON: %w", err)
	}
	return &ex, nil
}

// Summarize generates a summary for the article using the configured
// provider and system prompt. The Python side reads the article content
// from the database named by MINMIND_DB.
func (c *Client) Summarize(a *models.Article, prompt string) (string, error) {
	provider := c.Provider
	if provider == "" {
		provider = "anthropic"
	}
	stdout, err := c.run("summarize", "--provider", provider, "--prompt", prompt, a.ID)
	if err != nil {
		return "", err
	}
	var resp summarizeResponse
	if err := json.Unmarshal(stdout, &resp); err != nil {
		return "", fmt.Errorf("genius: summarize returned malformed JSON: %w", err)
	}
	return resp.Summary, nil
}

// run executes one blocking subprocess invocation and returns its stdout.
func (c *Client) run(verb string, args ...string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "python"
	}

	dir, err := c.pythonDir()
	if err != nil {
		return nil, err
	}

	cmdArgs := append([]string{"-m", "minmind.cli", verb}, args...)
	cmd := exec.Command(binary, cmdArgs...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if c.DBPath != "" {
		cmd.Env = append(cmd.Env, "MINMIND_DB="+c.DBPath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("genius: %s failed: %s", verb, msg)
	}
	return stdout.Bytes(), nil
}

// pythonDir locates the minmind Python package: explicit config first,
// then the MINMIND_PYTHON_DIR environment variable, then ./python.
func (c *Client) pythonDir() (string, error) {
	if c.PythonDir != "" {
		return c.PythonDir, nil
	}
	if dir := os.Getenv("MINMIND_PYTHON_DIR"); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}
	cwd, err := os.Getwd()
	if err == nil {
		dir := filepath.Join(cwd, "python")
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("genius: python directory not found; set python_dir in config or MINMIND_PYTHON_DIR")
}
