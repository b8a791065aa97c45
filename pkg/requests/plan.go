package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const defaultMethod = http.MethodGet

// planFile represents the structure of a request plan file.
type planFile struct {
	Requests []Request `json:"requests" yaml:"requests"`
}

// Request is one call declared in a plan file.
type Request struct {
	ID     string `json:"id" yaml:"id"`
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
	Body   any    `json:"body,omitempty" yaml:"body,omitempty"`
}

// Plan is an ordered, validated list of requests.
type Plan struct {
	Requests []Request
}

// LoadPlan loads a request plan from a YAML/JSON file.
func LoadPlan(path string) (*Plan, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("plan file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	return ParsePlan(raw, filepath.Ext(path))
}

// ParsePlan decodes and validates plan content. ext selects the decoder; an
// empty ext tries YAML then JSON.
func ParsePlan(data []byte, ext string) (*Plan, error) {
	pf, err := decodePlan(data, ext)
	if err != nil {
		return nil, err
	}
	if len(pf.Requests) == 0 {
		return nil, errors.New("plan contains no requests")
	}

	plan := &Plan{Requests: make([]Request, len(pf.Requests))}
	seen := make(map[string]struct{}, len(pf.Requests))
	for i := range pf.Requests {
		req := sanitizeRequest(pf.Requests[i])
		if err := validateRequest(req); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := seen[req.ID]; exists {
			return nil, fmt.Errorf("duplicate request id %q", req.ID)
		}
		seen[req.ID] = struct{}{}
		plan.Requests[i] = req
	}
	return plan, nil
}

// decodePlan attempts to decode the plan file content.
func decodePlan(data []byte, ext string) (planFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var pf planFile
		if err := d.fn(data, &pf); err != nil {
			lastErr = fmt.Errorf("decode %s plan: %w", d.name, err)
			continue
		}
		return pf, nil
	}

	if lastErr != nil {
		return planFile{}, lastErr
	}
	return planFile{}, errors.New("plan file format not recognized (expected YAML or JSON)")
}

// sanitizeRequest trims and normalizes the request fields.
func sanitizeRequest(req Request) Request {
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	if req.Method == "" {
		req.Method = defaultMethod
	}
	req.Path = strings.TrimSpace(req.Path)
	return req
}

// validateRequest checks that required fields are present and consistent.
func validateRequest(req Request) error {
	if req.Path == "" {
		return fmt.Errorf("path is required for request %q", req.ID)
	}
	if !strings.HasPrefix(req.Path, "/") {
		return fmt.Errorf("path %q for request %q must start with '/'", req.Path, req.ID)
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return nil
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		if req.Body != nil {
			return fmt.Errorf("%s request %q must not have a body", req.Method, req.ID)
		}
		return nil
	default:
		return fmt.Errorf("unsupported method %q for request %q", req.Method, req.ID)
	}
}
