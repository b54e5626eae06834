package classify

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// defaultEntries is the built in keyword dictionary. The list is ordered,
// earlier entries win when several categories share a keyword.
var defaultEntries = []KeywordEntry{
	{Category: FamilyLaw, Keywords: []string{"divorce", "custody", "alimony", "marriage", "child", "spouse", "parent"}},
	{Category: Criminal, Keywords: []string{"theft", "assault", "fraud", "arrest", "police", "fir", "jail", "crime", "murder"}},
	{Category: Property, Keywords: []string{"land", "rent", "deed", "house", "tenant", "landlord", "eviction", "mortgage"}},
	{Category: Corporate, Keywords: []string{"business", "contract", "merger", "startup", "company", "shares", "partnership"}},
	{Category: Civil, Keywords: []string{"dispute", "lawsuit", "compensation", "defamation", "negligence", "contract"}},
}

// StaticKeywords serves the built in dictionary
type StaticKeywords struct {
}

// Entries returns the ordered keyword list
func (s StaticKeywords) Entries() []KeywordEntry {
	return defaultEntries
}

// FileKeywords loads the ordered keyword dictionary from a yaml file
// and reloads it when the file changes
type FileKeywords struct {
	file    string
	m       sync.RWMutex
	entries []KeywordEntry
}

// NewFileKeywords creates FileKeywords instance
func NewFileKeywords(path string) (*FileKeywords, error) {
	cmdapp.Log.Infof("Init keyword dictionary from: %s", path)
	if path == "" {
		return nil, errors.New("No path provided")
	}
	file := filepath.Join(path, "keywords.yml")
	f := FileKeywords{file: file}
	err := f.load()
	if err != nil {
		return nil, err
	}
	go f.watch()
	return &f, nil
}

// Entries returns the ordered keyword list
func (f *FileKeywords) Entries() []KeywordEntry {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.entries
}

func (f *FileKeywords) load() error {
	data, err := os.ReadFile(f.file)
	if err != nil {
		return errors.Wrap(err, "Can't read keywords file: "+f.file)
	}
	entries, err := parseKeywords(data)
	if err != nil {
		return err
	}
	f.m.Lock()
	defer f.m.Unlock()
	f.entries = entries
	return nil
}

func parseKeywords(data []byte) ([]KeywordEntry, error) {
	var entries []KeywordEntry
	err := yaml.Unmarshal(data, &entries)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse keywords file")
	}
	if len(entries) == 0 {
		return nil, errors.New("Empty keywords file")
	}
	for _, e := range entries {
		if !categories[e.Category] {
			return nil, errors.Errorf("Unknown category '%s' in keywords file", e.Category)
		}
	}
	return entries, nil
}

func (f *FileKeywords) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		cmdapp.Log.Error("Can't init keywords watcher ", err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(f.file)); err != nil {
		cmdapp.Log.Error("Can't watch keywords dir ", err)
		return
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == filepath.Clean(f.file) &&
				event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if err := f.load(); err != nil {
					cmdapp.Log.Error("Can't reload keywords ", err)
				} else {
					cmdapp.Log.Infof("Keywords reloaded from: %s", f.file)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cmdapp.Log.Error("Keywords watcher error ", err)
		}
	}
}
