package server

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the standard response envelope. Handler results travel
// in Data even when the handler reports an operational failure: those
// are part of the tool contract, not transport errors.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeResult wraps a handler's string result. Results that are
// themselves JSON are embedded unescaped.
func writeResult(w http.ResponseWriter, result string) {
	if json.Valid([]byte(result)) {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: json.RawMessage(result)})
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// decodeBody parses a JSON request body into req, replying 400 on
// malformed input. Returns false when the request was already handled.
func decodeBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// boolOrDefault resolves an optional request flag.
func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// POST /tools/generate_workflow
func (s *Server) handleGenerateWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	var req struct {
		Requirements string `json:"requirements"`
		WorkflowName string `json:"workflow_name"`
		SaveToFile   *bool  `json:"save_to_file"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Requirements == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "requirements is required"})
		return
	}

	result := s.svc.GenerateWorkflow(req.Requirements, req.WorkflowName, boolOrDefault(req.SaveToFile, true))
	writeResult(w, result)
}

// POST /tools/save_api_key
func (s *Server) handleSaveAPIKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "api_key is required"})
		return
	}

	writeResult(w, s.svc.SaveAPIKey(req.APIKey))
}

// POST /tools/import_workflow
func (s *Server) handleImportWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	var req struct {
		WorkflowJSON string `json:"workflow_json"`
		SaveToFile   *bool  `json:"save_to_file"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.WorkflowJSON == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "workflow_json is required"})
		return
	}

	result := s.svc.ImportWorkflow(r.Context(), req.WorkflowJSON, boolOrDefault(req.SaveToFile, true))
	writeResult(w, result)
}

// GET /tools/list_workflows
func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	writeResult(w, s.svc.ListWorkflows(r.Context()))
}

// POST /tools/get_workflow
func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	var req struct {
		WorkflowID string `json:"workflow_id"`
		SaveToFile *bool  `json:"save_to_file"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.WorkflowID == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "workflow_id is required"})
		return
	}

	result := s.svc.GetWorkflow(r.Context(), req.WorkflowID, boolOrDefault(req.SaveToFile, false))
	writeResult(w, result)
}

// GET /tools/list_saved_workflows
func (s *Server) handleListSavedWorkflows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, APIResponse{Error: "method not allowed"})
		return
	}

	writeResult(w, s.svc.ListSavedWorkflows())
}

// GET /healthz
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}
