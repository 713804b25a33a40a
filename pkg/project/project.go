// Package project builds and persists the tree of printable files below a
// project folder.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SaveFileName is the name of the tree file kept in the project root
const SaveFileName = "projectSaveData.json"

// ProjectTreeItem is a folder or file node. For files Description holds the
// absolute path.
type ProjectTreeItem struct {
	Title                    string             `json:"Title"`
	Description              string             `json:"Description"`
	IsFile                   bool               `json:"IsFile"`
	AssignedPrinterProfileID uuid.UUID          `json:"AssignedPrinterProfileId"`
	Children                 []*ProjectTreeItem `json:"Children"`
}

// Path returns the file system path of the node
func (i *ProjectTreeItem) Path() string {
	return i.Description
}

// Filter decides which files are part of the tree
type Filter interface {
	IsFileSupported(path string) bool
}

// BuildTree walks root and returns its folders followed by its supported
// files, each group sorted by name. Folders are kept even when empty.
// A missing root yields an empty tree.
func BuildTree(root string, filter Filter) ([]*ProjectTreeItem, error) {
	if strings.TrimSpace(root) == "" {
		return []*ProjectTreeItem{}, nil
	}
	info, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return []*ProjectTreeItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project folder: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project folder: %w", err)
	}
	return buildRecursive(abs, filter)
}

func buildRecursive(dir string, filter Filter) ([]*ProjectTreeItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	items := []*ProjectTreeItem{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		children, err := buildRecursive(p, filter)
		if err != nil {
			return nil, err
		}
		items = append(items, &ProjectTreeItem{
			Title:       e.Name(),
			Description: p,
			Children:    children,
		})
	}

	for _, e := range entries {
		if e.IsDir() || !filter.IsFileSupported(e.Name()) {
			continue
		}
		items = append(items, &ProjectTreeItem{
			Title:       e.Name(),
			Description: filepath.Join(dir, e.Name()),
			IsFile:      true,
			Children:    []*ProjectTreeItem{},
		})
	}

	return items, nil
}

// Save writes the tree to SaveFileName inside root
func Save(root string, items []*ProjectTreeItem) error {
	if strings.TrimSpace(root) == "" || items == nil {
		return nil
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create project folder: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project tree: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, SaveFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write project tree: %w", err)
	}
	return nil
}

// Load reads the tree saved in root. A missing root or save file yields an
// empty tree.
func Load(root string) ([]*ProjectTreeItem, error) {
	if strings.TrimSpace(root) == "" {
		return []*ProjectTreeItem{}, nil
	}

	data, err := os.ReadFile(filepath.Join(root, SaveFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*ProjectTreeItem{}, nil
		}
		return nil, fmt.Errorf("failed to read project tree: %w", err)
	}

	var items []*ProjectTreeItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse project tree: %w", err)
	}
	if items == nil {
		items = []*ProjectTreeItem{}
	}
	return items, nil
}

// Open scans root and carries over the profile assignments stored in the
// saved tree, so files added or removed since the last save are picked up.
func Open(root string, filter Filter) ([]*ProjectTreeItem, error) {
	saved, err := Load(root)
	if err != nil {
		return nil, err
	}
	fresh, err := BuildTree(root, filter)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]uuid.UUID)
	Walk(saved, func(item *ProjectTreeItem) {
		if item.IsFile && item.AssignedPrinterProfileID != uuid.Nil {
			assigned[filepath.Clean(item.Description)] = item.AssignedPrinterProfileID
		}
	})
	Walk(fresh, func(item *ProjectTreeItem) {
		if id, ok := assigned[filepath.Clean(item.Description)]; ok {
			item.AssignedPrinterProfileID = id
		}
	})
	return fresh, nil
}

// Walk visits every node depth first, parents before children
func Walk(items []*ProjectTreeItem, fn func(*ProjectTreeItem)) {
	for _, item := range items {
		fn(item)
		Walk(item.Children, fn)
	}
}

// Files returns the file nodes of the tree in walk order
func Files(items []*ProjectTreeItem) []*ProjectTreeItem {
	var files []*ProjectTreeItem
	Walk(items, func(item *ProjectTreeItem) {
		if item.IsFile {
			files = append(files, item)
		}
	})
	return files
}

// Find returns the node whose path equals path
func Find(items []*ProjectTreeItem, path string) *ProjectTreeItem {
	want := filepath.Clean(path)
	var found *ProjectTreeItem
	Walk(items, func(item *ProjectTreeItem) {
		if found == nil && filepath.Clean(item.Description) == want {
			found = item
		}
	})
	return found
}

// Assign sets the printer profile of a file, or of every file below a folder
func Assign(items []*ProjectTreeItem, path string, id uuid.UUID) error {
	node := Find(items, path)
	if node == nil {
		return fmt.Errorf("%s is not part of the project", path)
	}
	if node.IsFile {
		node.AssignedPrinterProfileID = id
		return nil
	}
	for _, f := range Files(node.Children) {
		f.AssignedPrinterProfileID = id
	}
	return nil
}
