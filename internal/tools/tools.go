// Package tools implements the invocable workflow operations exposed
// by the tool server and the workflows CLI. Handlers are stateless,
// resolve the API key fresh on every call, and report failures as
// human-readable strings rather than errors.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/credentials"
	"github.com/n8nops/n8nctl/internal/n8n"
	"github.com/n8nops/n8nctl/internal/store"
)

const noKeyMessage = "Error: no API key configured. Use the save_api_key tool or set " + credentials.KeyEnv + " in the environment."

// Service owns the configuration and the in-process cached API key.
// The cache is last-write-wins; the file on disk stays authoritative.
type Service struct {
	cfg   *config.Config
	store *store.Store

	mu        sync.Mutex
	cachedKey string
}

// New builds a tool service over the given configuration.
func New(cfg *config.Config) *Service {
	return &Service{
		cfg:       cfg,
		store:     store.New(cfg.WorkflowsDir),
		cachedKey: credentials.LoadKey(cfg),
	}
}

// Store exposes the underlying workflow file store.
func (s *Service) Store() *store.Store {
	return s.store
}

// HasKey reports whether an API key is currently available.
func (s *Service) HasKey() bool {
	return credentials.LoadKey(s.cfg) != ""
}

// client resolves the API key from file/env and builds a key-mode
// client, or returns false when no key is available.
func (s *Service) client() (*n8n.Client, bool) {
	key := credentials.LoadKey(s.cfg)
	if key == "" {
		return nil, false
	}
	return n8n.NewKeyClient(s.cfg.ServerURL, key), true
}

// placeholderWorkflow is the fixed skeleton emitted by generation: a
// single start node with empty connections and default settings. The
// requirements text is never interpreted into nodes.
func placeholderWorkflow(name string) n8n.Workflow {
	return n8n.Workflow{
		"name": name,
		"nodes": []any{
			map[string]any{
				"parameters":  map[string]any{},
				"id":          "start-1",
				"name":        "Start",
				"type":        "n8n-nodes-base.start",
				"typeVersion": 1,
				"position":    []any{250, 300},
			},
		},
		"connections": map[string]any{},
		"pinData":     map[string]any{},
		"settings":    map[string]any{"executionOrder": "v1"},
		"staticData":  nil,
		"tags":        []any{},
	}
}

// GenerateWorkflow builds the placeholder workflow structure and
// optionally persists it. The requirements are echoed back only.
func (s *Service) GenerateWorkflow(requirements, name string, save bool) string {
	if name == "" {
		name = "Generated Workflow"
	}

	wf := placeholderWorkflow(name)
	result := map[string]any{
		"workflow":     wf,
		"requirements": requirements,
	}

	if save {
		path, err := s.store.Save(wf, "")
		if err != nil {
			return fmt.Sprintf("Error saving workflow: %v", err)
		}
		result["saved_to"] = path
		result["message"] = fmt.Sprintf("Workflow generated and saved to: %s", path)
	} else {
		result["message"] = "Workflow generated (not saved to file)"
	}

	return indented(result)
}

// SaveAPIKey persists the key with owner-only permissions and updates
// the in-process cache.
func (s *Service) SaveAPIKey(key string) string {
	if err := credentials.SaveKey(s.cfg, key); err != nil {
		return fmt.Sprintf("Error: failed to save API key: %v", err)
	}

	s.mu.Lock()
	s.cachedKey = key
	s.mu.Unlock()

	return fmt.Sprintf("API key saved successfully to: %s", s.cfg.KeyFile())
}

// ImportWorkflow parses the given JSON, optionally persists it, then
// sends a create request. Malformed JSON fails before any network call.
func (s *Service) ImportWorkflow(ctx context.Context, workflowJSON string, save bool) string {
	var wf n8n.Workflow
	if err := json.Unmarshal([]byte(workflowJSON), &wf); err != nil {
		return fmt.Sprintf("Error: invalid JSON format - %v", err)
	}

	var savedPath string
	if save {
		path, err := s.store.Save(wf, "")
		if err != nil {
			return fmt.Sprintf("Error saving workflow: %v", err)
		}
		savedPath = path
	}

	client, ok := s.client()
	if !ok {
		return noKeyMessage
	}

	created, err := client.Create(ctx, wf)
	if err != nil {
		return fmt.Sprintf("Error importing workflow: %v", err)
	}

	id := created.ID()
	if id == "" {
		id = "unknown"
	}
	name := created.Name()
	if name == "" {
		name = "N/A"
	}
	message := fmt.Sprintf("Workflow imported successfully! ID: %s, Name: %s", id, name)
	if savedPath != "" {
		message += fmt.Sprintf("\nWorkflow also saved to: %s", savedPath)
	}
	return message
}

// ListWorkflows returns the server's workflow collection verbatim.
func (s *Service) ListWorkflows(ctx context.Context) string {
	client, ok := s.client()
	if !ok {
		return noKeyMessage
	}

	raw, err := client.ListRaw(ctx)
	if err != nil {
		return fmt.Sprintf("Error listing workflows: %v", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}

// GetWorkflow fetches one workflow by identifier, optionally persisting
// it to the workflows directory.
func (s *Service) GetWorkflow(ctx context.Context, id string, save bool) string {
	client, ok := s.client()
	if !ok {
		return noKeyMessage
	}

	wf, err := client.Get(ctx, id)
	if err != nil {
		return fmt.Sprintf("Error retrieving workflow: %v", err)
	}

	result := map[string]any{"workflow": wf}
	if save {
		path, err := s.store.Save(wf, "")
		if err != nil {
			return fmt.Sprintf("Error saving workflow: %v", err)
		}
		result["saved_to"] = path
		result["message"] = fmt.Sprintf("Workflow retrieved and saved to: %s", path)
	} else {
		result["message"] = "Workflow retrieved"
	}

	return indented(result)
}

// ListSavedWorkflows enumerates the locally persisted workflow files,
// newest first.
func (s *Service) ListSavedWorkflows() string {
	entries, err := s.store.ListSaved()
	if err != nil {
		return fmt.Sprintf("Error listing saved workflows: %v", err)
	}

	return indented(map[string]any{
		"workflows": entries,
		"count":     len(entries),
		"directory": s.store.Dir(),
	})
}

func indented(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return string(data)
}
