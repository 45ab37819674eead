package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/finsight/internal/model"
)

// ErrUnsupportedFormat is returned for files no registered parser handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser converts an exported report file into a raw table.
type Parser interface {
	Parse(r io.Reader) (*model.Table, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a report file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser matching the file's extension.
func (r *Registry) ForFile(name string) (Parser, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if p := r.Get(ext); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ParseFile opens path and parses it with the parser for its extension.
func (r *Registry) ParseFile(path string) (*model.Table, error) {
	p, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	t, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Supported reports whether a parser is registered for the file's extension.
func (r *Registry) Supported(name string) bool {
	_, err := r.ForFile(name)
	return err == nil
}

// DefaultRegistry returns a registry with the CSV and XLSX parsers. encoding
// selects the CSV text encoding (see NewCSVParser).
func DefaultRegistry(encoding string) (*Registry, error) {
	csvParser, err := NewCSVParser(encoding)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	r.Register(csvParser)
	r.Register(&XLSXParser{})
	return r, nil
}

// Scan returns the files in dir that r can parse, in directory order.
// A missing directory yields no files.
func Scan(dir string, r *Registry) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !r.Supported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
