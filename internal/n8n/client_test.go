package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n8nops/n8nctl/internal/credentials"
)

func TestKeyClient_HeaderAndPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workflows" {
			t.Errorf("path = %q, want /api/v1/workflows", r.URL.Path)
		}
		if got := r.Header.Get("X-N8N-API-KEY"); got != "secret" {
			t.Errorf("API key header = %q, want %q", got, "secret")
		}
		json.NewEncoder(w).Encode([]Workflow{})
	}))
	defer srv.Close()

	client := NewKeyClient(srv.URL, "secret")
	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
}

func TestSessionClient_LoginCookieAndPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/login":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode login body: %v", err)
			}
			if body["emailOrLdapLoginId"] != "a@x.com" || body["password"] != "p" {
				t.Errorf("login body = %v", body)
			}
			http.SetCookie(w, &http.Cookie{Name: "n8n-auth", Value: "cookie-value"})
			w.Write([]byte(`{}`))
		case "/rest/workflows":
			cookie, err := r.Cookie("n8n-auth")
			if err != nil || cookie.Value != "cookie-value" {
				t.Error("expected session cookie on workflow request")
			}
			json.NewEncoder(w).Encode(map[string]any{"data": []Workflow{}})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	client, err := New(context.Background(), srv.URL, credentials.Session{Email: "a@x.com", Password: "p"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
}

func TestSessionClient_LoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(context.Background(), srv.URL, credentials.Session{Email: "a@x.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected login error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}

func TestDecodeCollection(t *testing.T) {
	wrapped := []byte(`{"data": [{"id": "1", "name": "Foo"}]}`)
	list, err := decodeCollection(wrapped)
	if err != nil {
		t.Fatalf("decodeCollection(wrapped) error: %v", err)
	}
	if len(list) != 1 || list[0].Name() != "Foo" {
		t.Errorf("wrapped decode = %v", list)
	}

	bare := []byte(`[{"id":"2","name":"Baz"}]`)
	list, err = decodeCollection(bare)
	if err != nil {
		t.Fatalf("decodeCollection(bare) error: %v", err)
	}
	if len(list) != 1 || list[0].Name() != "Baz" {
		t.Errorf("bare decode = %v", list)
	}

	alt := []byte(`{"workflows": [{"id":"3","name":"Qux"}]}`)
	list, err = decodeCollection(alt)
	if err != nil {
		t.Fatalf("decodeCollection(workflows) error: %v", err)
	}
	if len(list) != 1 || list[0].Name() != "Qux" {
		t.Errorf("workflows decode = %v", list)
	}

	if _, err := decodeCollection([]byte(`{"other": true}`)); err == nil {
		t.Error("expected error for unknown object shape")
	}
	if _, err := decodeCollection([]byte(`"just a string"`)); err == nil {
		t.Error("expected error for non-collection value")
	}
}

func collectionServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
}

func TestFindByName(t *testing.T) {
	srv := collectionServer(t, `{"data": [{"id": "1", "name": "Foo"}, {"id": "2", "name": "foo"}]}`)
	defer srv.Close()
	client := NewKeyClient(srv.URL, "k")

	wf, err := client.FindByName(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("FindByName() error: %v", err)
	}
	if wf.ID() != "1" {
		t.Errorf("ID = %q, want %q (first exact match)", wf.ID(), "1")
	}

	if _, err := client.FindByName(context.Background(), "Bar"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByName(Bar) error = %v, want ErrNotFound", err)
	}

	// Case-sensitive: "FOO" matches neither entry.
	if _, err := client.FindByName(context.Background(), "FOO"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByName(FOO) error = %v, want ErrNotFound", err)
	}
}

func TestFindByName_MissingID(t *testing.T) {
	srv := collectionServer(t, `[{"name": "Foo"}]`)
	defer srv.Close()
	client := NewKeyClient(srv.URL, "k")

	if _, err := client.FindByName(context.Background(), "Foo"); !errors.Is(err, ErrMissingID) {
		t.Errorf("error = %v, want ErrMissingID", err)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/api/v1/workflows/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewKeyClient(srv.URL, "k")
	if err := client.Delete(context.Background(), "42"); err != nil {
		t.Errorf("Delete() error: %v, want success for 204", err)
	}
}

func TestDelete_NotFoundSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"workflow does not exist"}`))
	}))
	defer srv.Close()

	client := NewKeyClient(srv.URL, "k")
	err := client.Delete(context.Background(), "42")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Body != `{"message":"workflow does not exist"}` {
		t.Errorf("Body = %q, want server body verbatim", apiErr.Body)
	}
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var wf Workflow
		if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
			t.Fatalf("decode create body: %v", err)
		}
		wf["id"] = "new-id"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(wf)
	}))
	defer srv.Close()

	client := NewKeyClient(srv.URL, "k")
	created, err := client.Create(context.Background(), Workflow{"name": "Imported"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID() != "new-id" {
		t.Errorf("ID = %q, want %q", created.ID(), "new-id")
	}
	if created.Name() != "Imported" {
		t.Errorf("Name = %q, want %q", created.Name(), "Imported")
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workflows/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"7","name":"Seven"}`))
	}))
	defer srv.Close()

	client := NewKeyClient(srv.URL, "k")
	wf, err := client.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if wf.Name() != "Seven" {
		t.Errorf("Name = %q, want %q", wf.Name(), "Seven")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewKeyClient(srv.URL, "k")
	_, err := client.List(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an *APIError, got %v", err)
	}
}

func TestWorkflowAccessors(t *testing.T) {
	wf := Workflow{"id": "1", "name": "Foo", "nodes": []any{}}
	if wf.ID() != "1" || wf.Name() != "Foo" {
		t.Errorf("accessors = (%q, %q)", wf.ID(), wf.Name())
	}

	// Non-string id is treated as absent.
	wf = Workflow{"id": 42.0}
	if wf.ID() != "" {
		t.Errorf("ID() for numeric id = %q, want empty", wf.ID())
	}
}
