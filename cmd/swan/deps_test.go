package main

import (
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"swan/interpreter-go/pkg/driver"
)

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Swan CLI",
			Email: "swan@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestDepsInstallPathDependency(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "vendor", "colors", "index.swan"), "primary = ['red', 'green', 'blue']")
	writeFile(t, filepath.Join(dir, "swan.yml"), `
name: app
dependencies:
  colors: vendor/colors
`)

	code, out, errOut := runCLI(t, "", "deps", "install")
	if code != 0 {
		t.Fatalf("deps install failed: %d %s", code, errOut)
	}
	if out != "installed colors path\n" {
		t.Fatalf("unexpected output %q", out)
	}

	lock, err := driver.LoadLockfile(filepath.Join(dir, driver.LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	pkg := lock.Package("colors")
	if pkg == nil {
		t.Fatalf("missing colors entry: %#v", lock.Packages)
	}
	if want := pathSourcePrefix + filepath.Join(dir, "vendor", "colors"); pkg.Source != want {
		t.Fatalf("pkg.Source = %q, want %q", pkg.Source, want)
	}
	if !strings.HasPrefix(pkg.Checksum, "sha256:") {
		t.Fatalf("expected checksum, got %q", pkg.Checksum)
	}

	code, out, errOut = runCLI(t, "", "-e", "size ((require 'colors').primary)")
	if code != 0 || out != "3\n" {
		t.Fatalf("expected package to be requirable, got %d %q (%s)", code, out, errOut)
	}
}

func TestDepsInstallWithoutManifest(t *testing.T) {
	isolate(t)
	code, _, errOut := runCLI(t, "", "deps", "install")
	if code != 1 || !strings.Contains(errOut, errManifestNotFound.Error()) {
		t.Fatalf("expected missing manifest error, got %d %q", code, errOut)
	}
}

func TestDependencyInstallerGitDependency(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available for local clones")
	}
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "index.swan"), "value = 'git'")
	rev := initGitRepo(t, repo)

	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, "swan.yml"), `
name: app
dependencies:
  gitpkg:
    git: `+repo+`
    branch: master
`)
	manifest, err := driver.LoadManifest(filepath.Join(app, "swan.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cacheDir := filepath.Join(root, "cache")
	installer := newDependencyInstaller(manifest, cacheDir, slog.New(slog.DiscardHandler))
	lock, err := installer.Install()
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	pkg := lock.Package("gitpkg")
	if pkg == nil {
		t.Fatalf("missing gitpkg entry: %#v", lock.Packages)
	}
	if want := "master@" + rev; pkg.Version != want {
		t.Fatalf("pkg.Version = %q, want %q", pkg.Version, want)
	}
	if want := gitSourcePrefix + repo + "@" + rev; pkg.Source != want {
		t.Fatalf("pkg.Source = %q, want %q", pkg.Source, want)
	}
	installed := lockedPackageDir(cacheDir, pkg)
	if _, err := os.Stat(filepath.Join(installed, "index.swan")); err != nil {
		t.Fatalf("expected checkout at %s: %v", installed, err)
	}
}

func TestGitRevisionFromSpec(t *testing.T) {
	cases := []struct {
		spec driver.DependencySpec
		rev  string
		desc string
	}{
		{driver.DependencySpec{Rev: "abc"}, "abc", "abc"},
		{driver.DependencySpec{Tag: "v1"}, "refs/tags/v1", "v1"},
		{driver.DependencySpec{Branch: "main"}, "refs/heads/main", "main"},
	}
	for _, tc := range cases {
		rev, desc, err := gitRevisionFromSpec(&tc.spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(rev) != tc.rev || desc != tc.desc {
			t.Fatalf("expected %s/%s, got %s/%s", tc.rev, tc.desc, rev, desc)
		}
	}
	if _, _, err := gitRevisionFromSpec(&driver.DependencySpec{}); err == nil {
		t.Fatalf("expected error for unpinned spec")
	}
}

func TestSanitizePathSegment(t *testing.T) {
	if got := sanitizePathSegment("main@abc/def"); got != "main_abc_def" {
		t.Fatalf("unexpected segment %q", got)
	}
	if got := sanitizePathSegment("  "); got != "head" {
		t.Fatalf("expected head, got %q", got)
	}
}
