package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file looked up by FindManifest.
const ManifestFileName = "flex.yml"

// DefaultPrompt is used by the REPL when the manifest does not set one.
const DefaultPrompt = "> "

// ErrManifestNotFound is returned by FindManifest when no flex.yml exists in
// the directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: flex.yml not found")

// Manifest represents the parsed contents of flex.yml.
type Manifest struct {
	Path    string
	Name    string
	Version string
	Authors []string
	Main    string
	Repl    ReplConfig
	Log     LogConfig
}

// ReplConfig holds interactive-session settings.
type ReplConfig struct {
	Prompt string
}

// LogConfig selects the structured logger's level, output format and
// optional log file.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses flex.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest looks for flex.yml in dir and then in each parent directory.
func FindManifest(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for current := absDir; ; {
		candidate := filepath.Join(current, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

// LogFilePath resolves log.file relative to the manifest's directory.
func (m *Manifest) LogFilePath() string {
	if m == nil || m.Log.File == "" {
		return ""
	}
	if filepath.IsAbs(m.Log.File) {
		return m.Log.File
	}
	return filepath.Join(filepath.Dir(m.Path), m.Log.File)
}

// MainPath resolves the entry script relative to the manifest's directory.
func (m *Manifest) MainPath() string {
	if m == nil || m.Main == "" {
		return ""
	}
	if filepath.IsAbs(m.Main) {
		return m.Main
	}
	return filepath.Join(filepath.Dir(m.Path), m.Main)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("invalid version %q", m.Version))
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	if m.Main != "" && filepath.Ext(m.Main) != ".flex" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a .flex file", m.Main))
	}
	switch m.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", m.Log.Level))
	}
	switch m.Log.Format {
	case "", "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q must be text or json", m.Log.Format))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

type manifestFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Authors stringList `yaml:"authors"`
	Main    string     `yaml:"main"`
	Repl    struct {
		Prompt *string `yaml:"prompt"`
	} `yaml:"repl"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	prompt := DefaultPrompt
	if mf.Repl.Prompt != nil {
		prompt = *mf.Repl.Prompt
	}
	return &Manifest{
		Path:    path,
		Name:    strings.TrimSpace(mf.Name),
		Version: strings.TrimSpace(mf.Version),
		Authors: mf.Authors.Clone(),
		Main:    strings.TrimSpace(mf.Main),
		Repl:    ReplConfig{Prompt: prompt},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(mf.Log.Level)),
			Format: strings.ToLower(strings.TrimSpace(mf.Log.Format)),
			File:   strings.TrimSpace(mf.Log.File),
		},
	}
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
