package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/pathutil"
)

// HubClient implements Remote against a dataset hub's HTTP API.
type HubClient struct {
	base  string
	token string
	spec  RepoSpec
	http  *http.Client
}

// NewHubClient returns a client for one repository on the hub at baseURL,
// authenticating with the given access token.
func NewHubClient(baseURL, token string, spec RepoSpec) *HubClient {
	return &HubClient{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		spec:  spec,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureRepo creates the repository if absent (exist_ok) and returns its URL.
func (c *HubClient) EnsureRepo(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]any{
		"name":         c.spec.Name,
		"organization": c.spec.Organization,
		"private":      c.spec.Private,
		"type":         "dataset",
		"exist_ok":     true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal create repo request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.base+"/api/repos", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "create repo"); err != nil {
		return "", err
	}

	var created struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errclass.ErrRemoteSync.WithMessagef("decode create repo response: %v", err)
	}
	if created.URL == "" {
		created.URL = c.base + "/datasets/" + c.spec.ID()
	}
	return created.URL, nil
}

// treeEntry is one file in the repository tree listing.
type treeEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Pull downloads every file in the remote tree into localDir.
func (c *HubClient) Pull(ctx context.Context, localDir string) error {
	resp, err := c.do(ctx, http.MethodGet, c.repoURL("tree"), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "list tree"); err != nil {
		return err
	}

	var tree []treeEntry
	if err := json.NewDecoder(resp.Body).Decode(&tree); err != nil {
		return errclass.ErrRemoteSync.WithMessagef("decode tree response: %v", err)
	}

	for _, entry := range tree {
		if err := c.pullFile(ctx, localDir, entry.Path); err != nil {
			return err
		}
	}
	return nil
}

func (c *HubClient) pullFile(ctx context.Context, localDir, relPath string) error {
	dest, err := pathutil.SafeJoin(localDir, relPath)
	if err != nil {
		return errclass.ErrRemoteSync.WithMessagef("remote tree entry %q: %v", relPath, err)
	}

	resp, err := c.do(ctx, http.MethodGet, c.repoURL("resolve/"+relPath), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "fetch "+relPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create mirror dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create mirror file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return errclass.ErrRemoteSync.WithMessagef("download %s: %v", relPath, err)
	}
	return nil
}

// commitFile carries one file body in a push; Content marshals as base64.
type commitFile struct {
	Path    string `json:"path"`
	Content []byte `json:"content"`
}

type commitRequest struct {
	CommitID string       `json:"commit_id"`
	Message  string       `json:"message"`
	Files    []commitFile `json:"files"`
}

// Push commits the full current state of localDir to the remote.
func (c *HubClient) Push(ctx context.Context, localDir, message string) error {
	req := commitRequest{
		CommitID: uuid.NewString(),
		Message:  message,
	}

	err := filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		req.Files = append(req.Files, commitFile{Path: filepath.ToSlash(rel), Content: content})
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect mirror files: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal commit request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.repoURL("commit"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp, "push commit")
}

func (c *HubClient) repoURL(suffix string) string {
	return c.base + "/api/repos/" + c.spec.ID() + "/" + suffix
}

func (c *HubClient) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errclass.ErrRemoteSync.WithMessagef("%s %s: %v", method, url, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return errclass.ErrRemoteSync.WithMessagef("%s: %s: %s", op, resp.Status, strings.TrimSpace(string(snippet)))
}
