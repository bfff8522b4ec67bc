// Package registry indexes the leaf components of a site: which pages mount
// them and which public assets each one waits for. The dev server uses it to
// map a changed file back to the routes that must be rebuilt.
package registry

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/sparkle/internal/page"
)

// ComponentRegistry holds every known leaf component.
type ComponentRegistry struct {
	components map[string]*ComponentInfo
	mutex      sync.RWMutex
	watchers   []chan ComponentEvent
}

// ComponentInfo describes one leaf component.
type ComponentInfo struct {
	Name     string    `json:"name" yaml:"name"`
	Routes   []string  `json:"routes" yaml:"routes"`
	Assets   []string  `json:"assets" yaml:"assets"`
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`
}

func (ci *ComponentInfo) equal(other *ComponentInfo) bool {
	return slices.Equal(ci.Routes, other.Routes) && slices.Equal(ci.Assets, other.Assets)
}

// ComponentEvent is delivered to watchers on every change.
type ComponentEvent struct {
	Type      EventType
	Component *ComponentInfo
	Timestamp time.Time
}

// EventType represents the type of component event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentInfo),
		watchers:   make([]chan ComponentEvent, 0),
	}
}

// Register adds or replaces a component and notifies watchers.
func (r *ComponentRegistry) Register(component *ComponentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.components[component.Name]; exists {
		eventType = EventTypeUpdated
	}
	r.components[component.Name] = component
	r.notify(eventType, component)
}

// Get retrieves a component by name.
func (r *ComponentRegistry) Get(name string) (*ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	return component, exists
}

// GetAll returns every component sorted by name.
func (r *ComponentRegistry) GetAll() []*ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*ComponentInfo, 0, len(r.components))
	for _, component := range r.components {
		result = append(result, component)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Remove deletes a component and notifies watchers.
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if component, exists := r.components[name]; exists {
		delete(r.components, name)
		r.notify(EventTypeRemoved, component)
	}
}

// Watch returns a channel that receives component events.
func (r *ComponentRegistry) Watch() <-chan ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes and closes a watcher channel.
func (r *ComponentRegistry) UnWatch(ch <-chan ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered components.
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.components)
}

// Sync makes the registry reflect site. Components whose routes or assets
// are unchanged produce no event. It returns the number of events sent.
func (r *ComponentRegistry) Sync(site *page.Site) int {
	next := FromSite(site)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	changes := 0
	for name, old := range r.components {
		if _, ok := next[name]; !ok {
			delete(r.components, name)
			r.notify(EventTypeRemoved, old)
			changes++
		}
	}
	for name, info := range next {
		old, exists := r.components[name]
		switch {
		case !exists:
			r.components[name] = info
			r.notify(EventTypeAdded, info)
			changes++
		case !old.equal(info):
			r.components[name] = info
			r.notify(EventTypeUpdated, info)
			changes++
		}
	}
	return changes
}

// RoutesUsing returns the sorted routes that mount a component depending on
// the asset at ref.
func (r *ComponentRegistry) RoutesUsing(ref string) []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	seen := make(map[string]bool)
	for _, component := range r.components {
		if !slices.Contains(component.Assets, ref) {
			continue
		}
		for _, route := range component.Routes {
			seen[route] = true
		}
	}
	routes := make([]string, 0, len(seen))
	for route := range seen {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

// FromSite collects one ComponentInfo per leaf id. A leaf mounted on
// several pages lists every route and the union of its assets.
func FromSite(site *page.Site) map[string]*ComponentInfo {
	now := time.Now()
	out := make(map[string]*ComponentInfo)
	for _, p := range site.Pages() {
		for _, leaf := range p.Leaves {
			info, ok := out[leaf.ID()]
			if !ok {
				info = &ComponentInfo{Name: leaf.ID(), LastSeen: now}
				out[leaf.ID()] = info
			}
			for _, ref := range leaf.Assets() {
				if !slices.Contains(info.Assets, string(ref)) {
					info.Assets = append(info.Assets, string(ref))
				}
			}
			if !slices.Contains(info.Routes, p.Route) {
				info.Routes = append(info.Routes, p.Route)
			}
		}
	}
	for _, info := range out {
		sort.Strings(info.Routes)
		sort.Strings(info.Assets)
	}
	return out
}

// notify sends without blocking; a full watcher misses the event.
// Callers hold the write lock.
func (r *ComponentRegistry) notify(eventType EventType, component *ComponentInfo) {
	event := ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	}
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
		}
	}
}
