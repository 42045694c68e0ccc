// Package taskexec carries capabilities (the Executor, the file system, the
// logger) through a call tree without threading them through every
// signature.
//
// A Context holds explicit overrides plus a cache of lazily computed
// defaults. Overrides are installed on a context.Context with Key.With and
// are visible only to work running under that context.Context; the default
// cache is shared by every Context derived from the same root so each
// default is built once.
package taskexec

import (
	"context"
	"fmt"
	"sync"
)

type contextKey struct{}

var currentKey = &contextKey{}

var (
	root     *Context
	rootOnce sync.Once
)

// Context is an immutable set of capability bindings.
type Context struct {
	overrides map[any]any
	defaults  *defaultCache
}

type defaultCache struct {
	mu      sync.Mutex
	entries map[any]*cacheEntry
}

type cacheEntry struct {
	once  sync.Once
	value any
}

// New returns an empty root context with its own default cache.
func New() *Context {
	return &Context{defaults: &defaultCache{entries: make(map[any]*cacheEntry)}}
}

// Root returns the process-wide root context used when a context.Context
// carries none.
func Root() *Context {
	rootOnce.Do(func() { root = New() })
	return root
}

// Current returns the Context installed on ctx, or Root.
func Current(ctx context.Context) *Context {
	if ctx != nil {
		if c, ok := ctx.Value(currentKey).(*Context); ok {
			return c
		}
	}
	return Root()
}

// Attach returns a child of ctx in which c is the current Context.
func (c *Context) Attach(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, currentKey, c)
}

// with returns a copy of c with key bound to v. c itself is unchanged.
func (c *Context) with(key, v any) *Context {
	overrides := make(map[any]any, len(c.overrides)+1)
	for k, existing := range c.overrides {
		overrides[k] = existing
	}
	overrides[key] = v
	return &Context{overrides: overrides, defaults: c.defaults}
}

func (c *Context) override(key any) (any, bool) {
	v, ok := c.overrides[key]
	return v, ok
}

func (c *Context) cached(key any, compute func() any) any {
	c.defaults.mu.Lock()
	entry, ok := c.defaults.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.defaults.entries[key] = entry
	}
	c.defaults.mu.Unlock()

	// Computing outside the cache lock lets a default read other keys.
	entry.once.Do(func() { entry.value = compute() })
	return entry.value
}

// Key identifies one capability of type T. Keys compare by identity, so two
// keys with the same name are still distinct.
type Key[T any] struct {
	name string
	def  func() T
}

// NewKey declares a capability with a default constructor. A nil def makes
// every lookup without an override panic.
func NewKey[T any](name string, def func() T) *Key[T] {
	return &Key[T]{name: name, def: def}
}

// Name returns the key's label.
func (k *Key[T]) Name() string { return k.name }

// Get resolves the key against the Context current in ctx.
func (k *Key[T]) Get(ctx context.Context) T {
	return Value(Current(ctx), k)
}

// With returns a child of ctx whose current Context binds k to v.
func (k *Key[T]) With(ctx context.Context, v T) context.Context {
	return Set(Current(ctx), k, v).Attach(ctx)
}

// Lookup returns the value explicitly bound to k in ctx. Defaults are not
// consulted.
func (k *Key[T]) Lookup(ctx context.Context) (T, bool) {
	v, ok := Current(ctx).override(k)
	if !ok {
		var zero T
		return zero, false
	}
	return as[T](v), true
}

// Set returns a copy of c with k bound to v.
func Set[T any](c *Context, k *Key[T], v T) *Context {
	return c.with(k, v)
}

// Value resolves k in c: an override wins, otherwise the memoized default.
func Value[T any](c *Context, k *Key[T]) T {
	if v, ok := c.override(k); ok {
		return as[T](v)
	}
	if k.def == nil {
		panic(fmt.Sprintf("taskexec: key %q has no default and no override", k.name))
	}
	return as[T](c.cached(k, func() any { return k.def() }))
}

// as converts a stored value back to T; a nil interface stored for an
// interface-typed key comes back as T's zero value.
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
