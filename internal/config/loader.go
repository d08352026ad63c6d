package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

const appName = "deskpet"

// DefaultConfigPath returns $XDG_CONFIG_HOME/deskpet/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to resolve config directory")
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the daemon.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	ld := &loader{raw: RawConfig{}, sources: map[string]Source{}, seen: map[string]bool{}}

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := ld.load(path, nil); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(ld.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, attachSourceContext(err, ld.sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: ld.sources,
		Files:   ld.files,
	}, nil
}

// loader merges a file tree depth first: includes in order, then the
// including file on top.
type loader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	seen    map[string]bool
}

func (ld *loader) load(path string, stack []string) error {
	canon, err := canonicalPath(path)
	if err != nil {
		return err
	}
	for _, parent := range stack {
		if parent == canon {
			return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(stack, " -> "), canon)
		}
	}
	// A file reached through two includes is merged once.
	if ld.seen[canon] {
		return nil
	}
	ld.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", canon, err)
	}

	root := rootMapping(&doc)
	for _, ref := range includeRefs(root, canon) {
		paths, err := expandInclude(canon, ref.Value)
		if err != nil {
			return fmt.Errorf("%s:%d:%d: include %q: %w", ref.Source.File, ref.Source.Line, ref.Source.Column, ref.Value, err)
		}
		for _, inc := range paths {
			if err := ld.load(inc, append(stack, canon)); err != nil {
				return err
			}
		}
	}

	ld.raw = ld.raw.merge(raw)
	collectSources(root, canon, "", ld.sources)
	ld.files = append(ld.files, canon)
	return nil
}

type includeRef struct {
	Value  string
	Source Source
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return real, nil
}

func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	include, err := expandHome(include)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return xdg.Home, nil
	}
	if strings.HasPrefix(path, "~/") {
		if xdg.Home == "" {
			return "", fmt.Errorf("failed to resolve home directory")
		}
		return filepath.Join(xdg.Home, path[2:]), nil
	}
	return path, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// rootMapping returns the document's top-level mapping, or nil.
func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// collectSources records the position of every key under node as a dotted
// path.
func collectSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path := node.Content[i].Value
		if prefix != "" {
			path = prefix + "." + path
		}
		val := node.Content[i+1]
		out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		collectSources(val, file, path, out)
	}
}

func includeRefs(root *yaml.Node, file string) []includeRef {
	if root == nil {
		return nil
	}
	ref := func(n *yaml.Node) includeRef {
		return includeRef{
			Value:  n.Value,
			Source: Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column},
		}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []includeRef{ref(val)}
		case yaml.SequenceNode:
			var refs []includeRef
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					refs = append(refs, ref(item))
				}
			}
			return refs
		}
		return nil
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
