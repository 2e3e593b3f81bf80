// Package adapter contains the infrastructure adapters used by the auditor
// workflow: file intake, document loading, report and config storage.
package adapter

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	m "github.com/mouse-blink/auditor/internal/model"
)

// Intake failure classes.
var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrArchiveTooLarge = errors.New("archive too large")
	ErrInvalidArchive  = errors.New("invalid archive")
	ErrUndecodable     = errors.New("no configured encoding can decode file")
)

// IntakeError ties an intake failure to the input it concerns.
type IntakeError struct {
	Path m.Path
	Err  error
}

func (e *IntakeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IntakeError) Unwrap() error {
	return e.Err
}

// SourceFSAdapter abstracts the filesystem so the workflow can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// Get collects the relevant files under roots. It returns every file it
	// could read together with the joined errors for the ones it could not.
	Get(roots []m.Path, cfg m.IntakeConfig) ([]m.SourceFile, error)

	// Walk traverses root. When recursive is false the walk stays in root.
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter reads inputs from the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

type intake struct {
	fs     *LocalSourceFSAdapter
	cfg    m.IntakeConfig
	seen   map[m.Path]struct{}
	files  []m.SourceFile
	errors []error
}

// Get accepts files, directories (with an optional /... suffix for recursion)
// and .zip archives.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, cfg m.IntakeConfig) ([]m.SourceFile, error) {
	in := &intake{fs: a, cfg: withIntakeDefaults(cfg), seen: make(map[m.Path]struct{})}

	for _, root := range roots {
		in.root(string(root))
	}

	return in.files, errors.Join(in.errors...)
}

func withIntakeDefaults(cfg m.IntakeConfig) m.IntakeConfig {
	def := m.DefaultConfig().Intake

	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = def.MaxFileSize
	}

	if cfg.MaxZipSize <= 0 {
		cfg.MaxZipSize = def.MaxZipSize
	}

	if len(cfg.RelevantExtensions) == 0 {
		cfg.RelevantExtensions = def.RelevantExtensions
	}

	if cfg.Encoding == "" {
		cfg.Encoding = def.Encoding
	}

	if cfg.FallbackEncodings == nil {
		cfg.FallbackEncodings = def.FallbackEncodings
	}

	return cfg
}

func (in *intake) fail(p string, err error) {
	in.errors = append(in.errors, &IntakeError{Path: m.Path(p), Err: err})
}

func (in *intake) add(p string, data []byte) {
	key := m.Path(p)
	if _, ok := in.seen[key]; ok {
		return
	}

	text, err := decodeText(data, in.cfg)
	if err != nil {
		in.fail(p, err)
		return
	}

	in.seen[key] = struct{}{}
	in.files = append(in.files, m.SourceFile{Path: key, Content: text, Size: int64(len(data))})
}

func (in *intake) root(root string) {
	rootPath, recursive, err := normalizeRootPath(root)
	if err != nil {
		in.fail(root, err)
		return
	}

	info, err := in.fs.FileInfo(m.Path(rootPath))
	if err != nil {
		in.fail(rootPath, fmt.Errorf("root path error: %w", err))
		return
	}

	if !info.IsDir() {
		in.file(rootPath, info)
		return
	}

	err = in.fs.Walk(m.Path(rootPath), recursive, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			in.fail(p, err)
			return nil
		}

		if info.IsDir() {
			if p != rootPath && skippedDir(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		in.file(p, info)

		return nil
	})
	if err != nil {
		in.fail(rootPath, err)
	}
}

func skippedDir(name string) bool {
	return name == ".git" || name == "node_modules" || name == "vendor"
}

func (in *intake) file(p string, info os.FileInfo) {
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		in.archive(p, info)
		return
	}

	if !in.relevant(p) {
		return
	}

	if info.Size() > in.cfg.MaxFileSize {
		in.fail(p, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), in.cfg.MaxFileSize))
		return
	}

	data, err := in.fs.ReadFile(m.Path(p))
	if err != nil {
		in.fail(p, err)
		return
	}

	in.add(p, data)
}

func (in *intake) relevant(p string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(p)))

	return slices.ContainsFunc(in.cfg.RelevantExtensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// archive reads relevant entries straight from the zip; nothing is extracted.
func (in *intake) archive(p string, info os.FileInfo) {
	if info.Size() > in.cfg.MaxZipSize {
		in.fail(p, fmt.Errorf("%w: %d bytes (max %d)", ErrArchiveTooLarge, info.Size(), in.cfg.MaxZipSize))
		return
	}

	r, err := zip.OpenReader(p)
	if err != nil {
		in.fail(p, fmt.Errorf("%w: %w", ErrInvalidArchive, err))
		return
	}

	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !in.relevant(f.Name) {
			continue
		}

		entry := filepath.Join(p, filepath.FromSlash(path.Clean("/"+f.Name)))

		size, err := safecast.Convert[int64](f.UncompressedSize64)
		if err != nil || size > in.cfg.MaxFileSize {
			in.fail(entry, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, f.UncompressedSize64, in.cfg.MaxFileSize))
			continue
		}

		data, err := readEntry(f, in.cfg.MaxFileSize)
		if err != nil {
			in.fail(entry, fmt.Errorf("%w: %w", ErrInvalidArchive, err))
			continue
		}

		in.add(entry, data)
	}
}

func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}

	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

var charmaps = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// decodeText tries the primary encoding, then each fallback in order.
func decodeText(data []byte, cfg m.IntakeConfig) (string, error) {
	for _, name := range append([]string{cfg.Encoding}, cfg.FallbackEncodings...) {
		name = strings.ToLower(strings.TrimSpace(name))

		if name == "utf-8" || name == "utf8" {
			if utf8.Valid(data) {
				return string(data), nil
			}

			continue
		}

		enc, ok := charmaps[name]
		if !ok {
			continue
		}

		out, err := enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), nil
		}
	}

	return "", ErrUndecodable
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if rootStr == "..." {
		return ".", true
	}

	if strings.HasSuffix(rootStr, "/...") {
		return strings.TrimSuffix(rootStr, "/..."), true
	}

	return rootStr, false
}
