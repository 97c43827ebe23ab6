// Package library keeps a named collection of decoded sprites, loaded from
// directories on disk.
//
// Every file is decoded on its own goroutine, with a bound on how many run
// at once. A single decode never uses more than one goroutine.
package library

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-aseprite/ase"
)

// Sprite is one decoded file.
type Sprite struct {
	// Name is the root name and the path below the root, slash separated
	// and without extension, e.g. "chars/hero/walk".
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	Doc     *ase.Document
}

// Library is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	sprites map[string]*Sprite
	names   []string
}

func New() *Library {
	return &Library{sprites: make(map[string]*Sprite)}
}

// Add stores s, replacing any sprite with the same name.
func (l *Library) Add(s *Sprite) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sprites[s.Name]; !ok {
		i := sort.SearchStrings(l.names, s.Name)
		l.names = append(l.names, "")
		copy(l.names[i+1:], l.names[i:])
		l.names[i] = s.Name
	}
	l.sprites[s.Name] = s
}

func (l *Library) Get(name string) (*Sprite, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sprites[name]
	return s, ok
}

// Names returns the sprite names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.names...)
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

// IsSpriteFile reports whether name has a sprite file extension.
func IsSpriteFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ase", ".aseprite":
		return true
	}
	return false
}

type job struct {
	name string
	path string
}

// scan lists the sprite files below every root.
func scan(cfg *Config) ([]job, error) {
	var jobs []job
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root.Dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsSpriteFile(p) {
				return nil
			}
			rel, err := filepath.Rel(root.Dir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			rel = strings.TrimSuffix(rel, path.Ext(rel))
			jobs = append(jobs, job{name: root.Name + "/" + rel, path: p})
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scanning root %q", root.Name)
		}
	}
	return jobs, nil
}

// LoadFile decodes a single file.
func LoadFile(name, p string, opts *ase.Options) (*Sprite, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, "opening sprite file")
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat sprite file")
	}
	doc, err := ase.Decode(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}
	return &Sprite{Name: name, Path: p, Size: st.Size(), ModTime: st.ModTime(), Doc: doc}, nil
}

// Load decodes every sprite below the configured roots. Zero values in cfg
// take their defaults.
func Load(ctx context.Context, cfg *Config, opts *ase.Options) (*Library, error) {
	c := *cfg
	c.setDefaults()
	cfg = &c

	jobs, err := scan(cfg)
	if err != nil {
		return nil, err
	}
	glog.Infof("library: loading %d sprites from %d roots", len(jobs), len(cfg.Roots))

	lib := New()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	start := time.Now()
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadFile(j.name, j.path, opts)
			if err != nil {
				if cfg.Strict {
					return err
				}
				glog.Errorf("library: skipping %s: %v", j.path, err)
				return nil
			}
			lib.Add(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	glog.Infof("library: %d of %d sprites loaded in %v", lib.Len(), len(jobs), time.Since(start))
	return lib, nil
}
