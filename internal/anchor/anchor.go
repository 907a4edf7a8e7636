// Package anchor is the location registry: a shared key→value map mirrored
// into the location fragment (#group=tab&other=tab2), with change
// notifications per key.
//
// Handlers run synchronously on the goroutine that called Set, after the
// registry lock has been released, so a handler may read or write the
// registry again.
package anchor

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// EventChange fires on every change; per-key events are "change:<key>".
const EventChange = "change"

// ErrMalformedFragment is returned when a fragment pair lacks "=".
var ErrMalformedFragment = errors.New("malformed fragment")

// ChangeEvent returns the event name fired when key changes.
func ChangeEvent(key string) string { return EventChange + ":" + key }

// Handler receives the changed key and its new value ("" when unset).
type Handler func(key, value string)

// Subscription is a registered handler.
type Subscription interface {
	// Unsubscribe releases the handler. Safe to call more than once.
	Unsubscribe()
}

type subscription struct {
	id    uuid.UUID
	event string
	reg   *Registry
}

func (s *subscription) Unsubscribe() {
	if s.reg == nil {
		return
	}
	s.reg.remove(s.event, s.id)
	s.reg = nil
}

type subscriber struct {
	id uuid.UUID
	fn Handler
}

// Registry holds the shared location values.
type Registry struct {
	mu     sync.Mutex
	values map[string]string
	subs   map[string][]subscriber
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]string),
		subs:   make(map[string][]subscriber),
	}
}

// Get returns the value stored at key.
func (r *Registry) Get(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key holds a value.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set stores value at key and notifies subscribers. Setting the value a key
// already holds is silent.
func (r *Registry) Set(key, value string) {
	r.mu.Lock()
	if old, ok := r.values[key]; ok && old == value {
		r.mu.Unlock()
		return
	}
	r.values[key] = value
	handlers := r.handlersLocked(key)
	r.mu.Unlock()

	notify(handlers, key, value)
}

// Unset removes key and notifies subscribers with an empty value.
func (r *Registry) Unset(key string) {
	r.mu.Lock()
	if _, ok := r.values[key]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.values, key)
	handlers := r.handlersLocked(key)
	r.mu.Unlock()

	notify(handlers, key, "")
}

// On subscribes fn to event, either EventChange or ChangeEvent(key).
func (r *Registry) On(event string, fn Handler) Subscription {
	s := subscriber{id: uuid.New(), fn: fn}
	r.mu.Lock()
	r.subs[event] = append(r.subs[event], s)
	r.mu.Unlock()
	return &subscription{id: s.id, event: event, reg: r}
}

// Keys returns the stored keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fragment encodes the registry as a location fragment, keys sorted. An
// empty registry encodes as "".
func (r *Registry) Fragment() string {
	r.mu.Lock()
	values := make(map[string]string, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	r.mu.Unlock()
	return Encode(values)
}

// SetFragment replaces the registry contents with a decoded fragment. Keys
// missing from the fragment are unset; changed keys notify subscribers in
// sorted key order.
func (r *Registry) SetFragment(fragment string) error {
	values, err := Decode(fragment)
	if err != nil {
		return err
	}
	for _, k := range r.Keys() {
		if _, ok := values[k]; !ok {
			r.Unset(k)
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, values[k])
	}
	return nil
}

func (r *Registry) handlersLocked(key string) []Handler {
	var out []Handler
	for _, s := range r.subs[ChangeEvent(key)] {
		out = append(out, s.fn)
	}
	for _, s := range r.subs[EventChange] {
		out = append(out, s.fn)
	}
	return out
}

func (r *Registry) remove(event string, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.subs[event]
	for i, s := range subs {
		if s.id == id {
			r.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[event]) == 0 {
		delete(r.subs, event)
	}
}

func notify(handlers []Handler, key, value string) {
	for _, fn := range handlers {
		fn(key, value)
	}
}

// Encode renders values as "#k1=v1&k2=v2" with keys sorted.
func Encode(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = url.QueryEscape(k) + "=" + url.QueryEscape(values[k])
	}
	return "#" + strings.Join(pairs, "&")
}

// Decode parses a fragment with or without its leading "#". Later pairs win
// over earlier ones with the same key.
func Decode(fragment string) (map[string]string, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	values := make(map[string]string)
	if fragment == "" {
		return values, nil
	}
	for _, pair := range strings.Split(fragment, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: pair %q", ErrMalformedFragment, pair)
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformedFragment, k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q: %v", ErrMalformedFragment, v, err)
		}
		values[key] = val
	}
	return values, nil
}
