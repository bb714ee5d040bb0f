package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"seekan/internal/apperr"
	"seekan/internal/domain"
)

// Loader reads named preset files from a directory and caches them. A preset
// is a bundle of campaign defaults selected at campaign-creation time.
type Loader struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*domain.Preset
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, cache: map[string]*domain.Preset{}}
}

func (l *Loader) Load(name string) (*domain.Preset, error) {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return nil, apperr.Validation("invalid preset name %q", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.cache[name]; ok {
		return p, nil
	}

	raw, err := os.ReadFile(filepath.Join(l.dir, name+".yaml"))
	if os.IsNotExist(err) {
		return nil, apperr.NotFound(fmt.Sprintf("preset %q not found", name))
	}
	if err != nil {
		return nil, err
	}

	var p domain.Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	applyDefaults(&p, name)
	l.cache[name] = &p
	return &p, nil
}

// Available maps preset names to display names for every file in the directory.
func (l *Loader) Available() (map[string]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		p, err := l.Load(name)
		if err != nil {
			continue
		}
		out[name] = p.Name
	}
	return out, nil
}

func applyDefaults(p *domain.Preset, name string) {
	if p.Name == "" {
		p.Name = name
	}
	if p.Model == "" {
		p.Model = "gpt-4o"
	}
	if p.SendCapPerRun == 0 {
		p.SendCapPerRun = 20
	}
	if p.DailySendCap == 0 {
		p.DailySendCap = 200
	}
	if p.FromEmail == "" {
		p.FromEmail = "info@nofabusinessconsulting.com"
	}
	if p.FromName == "" {
		p.FromName = "NOFA BC"
	}
	if len(p.TargetRoles) == 0 {
		p.TargetRoles = []string{"Business Owner", "Manager"}
	}
	if len(p.ExcludeDomains) == 0 {
		p.ExcludeDomains = []string{"gmail.com", "yahoo.com", "hotmail.com"}
	}
	if p.Geo.RadiusKM == 0 {
		p.Geo.RadiusKM = 50
	}
}
