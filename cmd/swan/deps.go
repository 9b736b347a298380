package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"swan/interpreter-go/pkg/driver"
)

const (
	pathSourcePrefix = "path:"
	gitSourcePrefix  = "git+"
)

var errManifestNotFound = errors.New("swan.yml not found")

func (c *cli) runDepsInstall() int {
	path, err := driver.FindManifest(".")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(c.stderr, "error: %v\n", errManifestNotFound)
			return 1
		}
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}

	installer := newDependencyInstaller(manifest, swanHome(), c.logger)
	lock, err := installer.Install()
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	if err := driver.WriteLockfile(lock, manifest.LockfilePath()); err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	for _, pkg := range lock.Packages {
		fmt.Fprintf(c.stdout, "installed %s %s\n", pkg.Name, pkg.Version)
	}
	return 0
}

type dependencyInstaller struct {
	manifest *driver.Manifest
	git      *gitFetcher
	logger   *slog.Logger
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string, logger *slog.Logger) *dependencyInstaller {
	return &dependencyInstaller{
		manifest: manifest,
		git:      newGitFetcher(cacheDir),
		logger:   logger,
	}
}

// Install resolves every declared dependency and returns a fresh lockfile
// describing them.
func (d *dependencyInstaller) Install() (*driver.Lockfile, error) {
	lock := driver.NewLockfile(d.manifest.Name, cliToolVersion)
	for _, name := range d.manifest.DependencyNames() {
		spec := d.manifest.Dependencies[name]
		var (
			pkg *driver.LockedPackage
			err error
		)
		if spec.Path != "" {
			d.logger.Debug("linking path dependency", "name", name, "path", spec.Path)
			pkg, err = d.installPath(name, spec)
		} else {
			d.logger.Debug("fetching git dependency", "name", name, "url", spec.Git)
			pkg, _, err = d.git.Fetch(name, spec)
		}
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		lock.Put(pkg)
	}
	return lock, nil
}

func (d *dependencyInstaller) installPath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(d.manifest.Dir(), dir)
	}
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path dependency %s is not a directory", dir)
	}
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", dir, err)
	}
	return &driver.LockedPackage{
		Name:     name,
		Version:  "path",
		Source:   pathSourcePrefix + dir,
		Checksum: checksum,
	}, nil
}

// addLockedPackages registers the packages recorded in the project's
// lockfile with the loader. A project without a lockfile has none.
func addLockedPackages(loader *driver.Loader, manifest *driver.Manifest) error {
	lock, err := driver.LoadLockfile(manifest.LockfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, pkg := range lock.Packages {
		loader.AddPackage(pkg.Name, lockedPackageDir(swanHome(), pkg))
	}
	return nil
}

func lockedPackageDir(cacheDir string, pkg *driver.LockedPackage) string {
	if dir, ok := strings.CutPrefix(pkg.Source, pathSourcePrefix); ok {
		return dir
	}
	return filepath.Join(cacheDir, "pkg", "src", driver.PackageName(pkg.Name), sanitizePathSegment(pkg.Version))
}

type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

func (g *gitFetcher) Fetch(name string, spec *driver.DependencySpec) (*driver.LockedPackage, string, error) {
	if g == nil {
		return nil, "", errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, "", fmt.Errorf("dependency %q: git URL required", name)
	}

	baseDir := filepath.Join(g.cacheDir, "pkg", "src", driver.PackageName(name))
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, "", err
	}

	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, "", err
	}

	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   fmt.Sprintf("%s%s@%s", gitSourcePrefix, url, commit),
		Checksum: checksum,
	}, commit, nil
}

func ensureGitCheckout(baseDir, url string, spec *driver.DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil && spec.Branch != "" {
		// only the default branch gets a local ref on clone
		hash, err = repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + strings.TrimSpace(spec.Branch)))
	}
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

func gitRevisionFromSpec(spec *driver.DependencySpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}

// dirChecksum hashes file names and contents under path, skipping git
// metadata.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
