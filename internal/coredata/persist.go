// SPDX-License-Identifier: MPL-2.0

package coredata

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/afero"

	"mason-cli/internal/options"
)

const (
	// PrivateDirName is the build-directory subdirectory holding every
	// file this package writes.
	PrivateDirName = "mason-private"
	// CacheFileName is the binary cache inside the private directory.
	CacheFileName = "coredata.dat"
	// BackupSuffix is appended to the previous cache before a new one is
	// written.
	BackupSuffix = ".prev"
)

var (
	// ErrCorruptCache is the sentinel wrapped by CorruptCacheError.
	ErrCorruptCache = errors.New("corrupt configuration cache")
	// ErrVersionMismatch is the sentinel wrapped by VersionMismatchError.
	ErrVersionMismatch = errors.New("configuration cache version mismatch")
)

type (
	// CorruptCacheError reports a cache file that exists but cannot be
	// decoded. The build directory must be configured from scratch.
	CorruptCacheError struct {
		Path string
		Err  error
	}

	// VersionMismatchError reports a cache written by an incompatible
	// tool version.
	VersionMismatchError struct {
		Path    string
		Found   string
		Running string
	}

	// cacheImage is the flat gob image of a CoreData. Only this type and
	// the option snapshot touch the wire; the live structs stay free to
	// change shape.
	cacheImage struct {
		Version       string
		CrossBuild    bool
		Options       []options.SavedOption
		RegenGUID     string
		TestGUID      string
		InstallGUID   string
		TargetGUIDs   map[string]string
		CrossFiles    []string
		NativeFiles   []string
		ConfigureArgs []string
	}
)

func init() {
	// SavedOption.Raw is an interface field; gob needs the one concrete
	// type that is not predeclared.
	gob.Register([]string(nil))
}

// Error implements the error interface for CorruptCacheError.
func (e *CorruptCacheError) Error() string {
	return fmt.Sprintf("cache file %s is corrupted: %v", e.Path, e.Err)
}

// Unwrap returns ErrCorruptCache for errors.Is() compatibility.
func (e *CorruptCacheError) Unwrap() error { return ErrCorruptCache }

// Error implements the error interface for VersionMismatchError.
func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("cache file %s was written by version %s which is incompatible with %s; reconfigure the build directory from scratch",
		e.Path, e.Found, e.Running)
}

// Unwrap returns ErrVersionMismatch for errors.Is() compatibility.
func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// CachePath returns the cache file location inside a build directory.
func CachePath(buildDir string) string {
	return filepath.Join(buildDir, PrivateDirName, CacheFileName)
}

// Save writes the cache file atomically: the image goes to a temporary
// file that is synced and then renamed over the cache, and the previous
// cache (when present) is first copied aside with the backup suffix. A
// crash at any point leaves either the old or the new cache readable.
//
// The CoreData's version must be major.minor compatible with the running
// tool; a loaded cache that far out of date must be reconfigured, never
// re-saved, so a mismatch here is a programming error and panics.
func Save(fs afero.Fs, buildDir string, c *CoreData) error {
	path := CachePath(buildDir)
	if err := checkVersion(path, c.version); err != nil {
		panic(fmt.Sprintf("coredata: saving cache with version %q under running version %s: %v", c.version, Version, err))
	}
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating private directory: %w", err)
	}

	if exists, err := afero.Exists(fs, path); err != nil {
		return fmt.Errorf("checking previous cache: %w", err)
	} else if exists {
		if err := copyFile(fs, path, path+BackupSuffix); err != nil {
			return fmt.Errorf("backing up previous cache: %w", err)
		}
	}

	tmp, err := afero.TempFile(fs, dir, CacheFileName+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temporary cache file: %w", err)
	}
	tmpName := tmp.Name()
	img := cacheImage{
		Version:       c.version,
		CrossBuild:    c.store.IsCrossBuild(),
		Options:       c.store.Snapshot(),
		RegenGUID:     c.regenGUID,
		TestGUID:      c.testGUID,
		InstallGUID:   c.installGUID,
		TargetGUIDs:   c.targetGUIDs,
		CrossFiles:    c.crossFiles,
		NativeFiles:   c.nativeFiles,
		ConfigureArgs: c.configureArgs,
	}
	if err := gob.NewEncoder(tmp).Encode(img); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("syncing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("closing cache: %w", err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}

// Load reads the cache file of a configured build directory and rebuilds
// the live CoreData around the given tables. A cache written by a tool
// with a different major.minor version is refused with a
// VersionMismatchError; undecodable content is reported as a
// CorruptCacheError.
func Load(fs afero.Fs, buildDir string, tables *options.Tables) (*CoreData, error) {
	path := CachePath(buildDir)
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	defer f.Close()

	var img cacheImage
	if err := gob.NewDecoder(f).Decode(&img); err != nil {
		return nil, &CorruptCacheError{Path: path, Err: err}
	}

	if err := checkVersion(path, img.Version); err != nil {
		return nil, err
	}

	store, err := options.RestoreStore(tables, options.Config{CrossBuild: img.CrossBuild}, img.Options)
	if err != nil {
		return nil, &CorruptCacheError{Path: path, Err: err}
	}

	targetGUIDs := img.TargetGUIDs
	if targetGUIDs == nil {
		targetGUIDs = make(map[string]string)
	}
	return &CoreData{
		version:       img.Version,
		store:         store,
		regenGUID:     img.RegenGUID,
		testGUID:      img.TestGUID,
		installGUID:   img.InstallGUID,
		targetGUIDs:   targetGUIDs,
		crossFiles:    img.CrossFiles,
		nativeFiles:   img.NativeFiles,
		configureArgs: img.ConfigureArgs,
	}, nil
}

// checkVersion enforces major.minor compatibility between the running tool
// and the cache writer. Patch releases stay compatible.
func checkVersion(path, found string) error {
	cached, err := goversion.NewVersion(found)
	if err != nil {
		return &CorruptCacheError{Path: path, Err: fmt.Errorf("unparseable cache version %q: %w", found, err)}
	}
	running := goversion.Must(goversion.NewVersion(Version))

	cs, rs := cached.Segments(), running.Segments()
	if cs[0] != rs[0] || cs[1] != rs[1] {
		return &VersionMismatchError{Path: path, Found: found, Running: Version}
	}
	return nil
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
