package driver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/logger"
)

type fixtureManifest struct {
	Description string `yaml:"description"`
	Entry       string `yaml:"entry"`
	Expect      struct {
		Stdout       []string `yaml:"stdout"`
		Diagnostics  []string `yaml:"diagnostics"`
		RuntimeError string   `yaml:"runtime_error"`
	} `yaml:"expect"`
}

type fixtureOutcome struct {
	stdout       []string
	diagnostics  []string
	runtimeError string
}

func fixtureRoot() string {
	return filepath.Join("testdata", "fixtures")
}

func collectFixtureDirs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(fixtureRoot())
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(fixtureRoot(), entry.Name()))
		}
	}
	sort.Strings(dirs)
	if len(dirs) == 0 {
		t.Fatalf("no fixtures found under %s", fixtureRoot())
	}
	return dirs
}

func readFixtureManifest(t *testing.T, dir string) fixtureManifest {
	t.Helper()
	manifestPath := filepath.Join(dir, "manifest.yml")
	file, err := os.Open(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fixtureManifest{}
		}
		t.Fatalf("open manifest %s: %v", manifestPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var manifest fixtureManifest
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("parse manifest %s: %v", manifestPath, err)
	}
	return manifest
}

// runFixture replays a fixture directory in a fresh session.
func runFixture(t *testing.T, dir string, manifest fixtureManifest) fixtureOutcome {
	t.Helper()
	entry := manifest.Entry
	if entry == "" {
		entry = "source.flex"
	}
	var stdout bytes.Buffer
	session := NewSession(WithStdout(&stdout), WithStderr(nil), WithLogger(logger.Discard()))
	if _, _, err := session.RunFile(filepath.Join(dir, entry)); err != nil {
		t.Fatalf("run %s: %v", dir, err)
	}

	outcome := fixtureOutcome{stdout: splitOutput(stdout.String())}
	for _, diag := range session.Diagnostics() {
		if diag.Kind == diagnostics.KindRuntime {
			outcome.runtimeError = diag.String()
			continue
		}
		outcome.diagnostics = append(outcome.diagnostics, diag.String())
	}
	return outcome
}

func splitOutput(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestFixtures(t *testing.T) {
	for _, dir := range collectFixtureDirs(t) {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			manifest := readFixtureManifest(t, dir)
			got := runFixture(t, dir, manifest)

			if !reflect.DeepEqual(got.diagnostics, manifest.Expect.Diagnostics) {
				t.Fatalf("diagnostics mismatch\nwant %q\ngot  %q", manifest.Expect.Diagnostics, got.diagnostics)
			}
			if len(manifest.Expect.Diagnostics) > 0 && len(got.stdout) > 0 {
				t.Fatalf("expected static errors to prevent execution, got output %q", got.stdout)
			}
			if got.runtimeError != manifest.Expect.RuntimeError {
				t.Fatalf("runtime error mismatch\nwant %q\ngot  %q", manifest.Expect.RuntimeError, got.runtimeError)
			}
			if !reflect.DeepEqual(got.stdout, manifest.Expect.Stdout) {
				t.Fatalf("stdout mismatch\nwant %q\ngot  %q", manifest.Expect.Stdout, got.stdout)
			}
		})
	}
}

func TestFixturesAreDeterministic(t *testing.T) {
	for _, dir := range collectFixtureDirs(t) {
		manifest := readFixtureManifest(t, dir)
		first := runFixture(t, dir, manifest)
		second := runFixture(t, dir, manifest)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: outcomes differ between fresh sessions\nfirst  %+v\nsecond %+v", dir, first, second)
		}
	}
}
