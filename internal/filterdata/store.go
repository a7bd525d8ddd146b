package filterdata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// File names inside a category directory.
const (
	domainsFile = "domains.yml"
	pathsFile   = "paths.yml"
)

//go:embed data
var embedded embed.FS

// pathsDocument mirrors paths.yml.
type pathsDocument struct {
	URLPathPatterns  []string          `yaml:"url_path_patterns"`
	QueryParameters  []string          `yaml:"query_parameters"`
	RegexPatterns    map[string]string `yaml:"regex_patterns"`
	CombinedPatterns []RawCombined     `yaml:"combined_patterns"`
}

// Store lazily loads and caches FilterData per category. Each category is
// read at most once for the lifetime of the Store.
type Store struct {
	fsys fs.FS
	log  logger.Logger

	mu      sync.Mutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	once sync.Once
	data *FilterData
}

// NewStore creates a Store reading <category>/domains.yml and
// <category>/paths.yml from fsys.
func NewStore(fsys fs.FS, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		fsys:    fsys,
		log:     log,
		entries: make(map[string]*storeEntry),
	}
}

// NewEmbeddedStore creates a Store over the category data compiled into the
// binary.
func NewEmbeddedStore(log logger.Logger) *Store {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(fmt.Sprintf("filterdata: embedded data: %v", err))
	}
	return NewStore(sub, log)
}

// NewDirStore creates a Store over a directory on disk laid out like the
// embedded data.
func NewDirStore(dir string, log logger.Logger) *Store {
	return NewStore(os.DirFS(dir), log)
}

// Load returns the FilterData for category, reading it on first use. A
// missing or unreadable category yields empty data; it never fails.
func (s *Store) Load(category string) *FilterData {
	s.mu.Lock()
	entry, ok := s.entries[category]
	if !ok {
		entry = &storeEntry{}
		s.entries[category] = entry
	}
	s.mu.Unlock()

	entry.once.Do(func() {
		entry.data = s.read(category)
	})

	return entry.data
}

// Categories lists the category directories available to the Store.
func (s *Store) Categories() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

func (s *Store) read(category string) *FilterData {
	log := s.log.With(logger.String("category", category))
	raw := Raw{}

	domains, err := s.readDomains(category)
	if err != nil {
		log.Warn("Skipping domain list", logger.Error(err))
	}
	raw.Domains = domains

	paths, err := s.readPaths(category)
	if err != nil {
		log.Warn("Skipping path signals", logger.Error(err))
	}
	if paths != nil {
		raw.PathPatterns = paths.URLPathPatterns
		raw.QueryParams = paths.QueryParameters
		raw.RegexPatterns = paths.RegexPatterns
		raw.CombinedPatterns = paths.CombinedPatterns
	}

	data, rejected := Compile(raw)
	if len(rejected) > 0 {
		log.Warn("Omitted invalid patterns", logger.Strings("patterns", rejected))
	}

	log.Debug("Loaded filter data",
		logger.Int("domains", len(data.Domains)),
		logger.Int("path_patterns", len(data.PathPatterns)),
		logger.Int("combined_patterns", len(data.CombinedPatterns)),
	)

	return data
}

// readDomains merges every top-level list in domains.yml into one slice.
func (s *Store) readDomains(category string) ([]string, error) {
	content, err := s.readFile(category, domainsFile)
	if content == nil || err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", domainsFile, err)
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var domains []string
	for _, key := range keys {
		values, ok := doc[key].([]any)
		if !ok {
			continue
		}
		for _, v := range values {
			if d, isString := v.(string); isString {
				domains = append(domains, d)
			}
		}
	}

	return domains, nil
}

func (s *Store) readPaths(category string) (*pathsDocument, error) {
	content, err := s.readFile(category, pathsFile)
	if content == nil || err != nil {
		return nil, err
	}

	var doc pathsDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", pathsFile, err)
	}

	return &doc, nil
}

// readFile returns nil content without error when the file does not exist.
func (s *Store) readFile(category, name string) ([]byte, error) {
	content, err := fs.ReadFile(s.fsys, category+"/"+name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}
