// Package store persists workflow JSON files in a local directory.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/n8nops/n8nctl/internal/n8n"
)

// nowFunc resolves the current time. Tests can override this to get
// deterministic filenames.
var nowFunc = time.Now

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store reads and writes workflow files under one directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created lazily
// on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory this store persists to.
func (s *Store) Dir() string {
	return s.dir
}

// Entry describes one saved workflow file.
type Entry struct {
	Filename string    `json:"filename"`
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Save writes a workflow as pretty-printed JSON and returns the file
// path. With an empty filename, one is derived from the workflow name
// (unsafe characters replaced) plus a timestamp.
func (s *Store) Save(wf n8n.Workflow, filename string) (string, error) {
	if filename == "" {
		name := wf.Name()
		if name == "" {
			name = "workflow"
		}
		safe := unsafeFilenameChars.ReplaceAllString(name, "_")
		filename = fmt.Sprintf("%s_%s.json", safe, nowFunc().Format("20060102_150405"))
	}
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal workflow: %w", err)
	}

	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write workflow file: %w", err)
	}
	return path, nil
}

// ListSaved enumerates the saved workflow files, newest first by
// modification time. Files that fail to parse are logged and skipped;
// a missing directory yields an empty list.
func (s *Store) ListSaved() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read workflows directory: %w", err)
	}

	entries := []Entry{}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, de.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("warning: skipping %s: %v", path, err)
			continue
		}
		var wf n8n.Workflow
		if err := json.Unmarshal(data, &wf); err != nil {
			log.Printf("warning: skipping %s: %v", path, err)
			continue
		}

		info, err := de.Info()
		if err != nil {
			log.Printf("warning: skipping %s: %v", path, err)
			continue
		}

		name := wf.Name()
		if name == "" {
			name = "Unknown"
		}
		entries = append(entries, Entry{
			Filename: de.Name(),
			Path:     path,
			Name:     name,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}
