package breadcrumb

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Collection names a path segment whose children are entity IDs.
type Collection string

const (
	Clients     Collection = "clients"
	Companies   Collection = "companies"
	Contacts    Collection = "contacts"
	Projects    Collection = "projects"
	Briefs      Collection = "briefs"
	DataSources Collection = "datasources"
)

// EntityResolver turns an entity ID into a display name. ok is false when the
// entity has no name to show.
type EntityResolver interface {
	ResolveEntityName(ctx context.Context, id string) (name string, ok bool, err error)
}

// ResolverFunc adapts a function to EntityResolver.
type ResolverFunc func(ctx context.Context, id string) (string, bool, error)

// ResolveEntityName calls f.
func (f ResolverFunc) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	return f(ctx, id)
}

// Resolver builds trails whose entity-ID segments are replaced with names.
// Lookups run one at a time in path order and are never cached.
type Resolver struct {
	mu        sync.RWMutex
	resolvers map[Collection]EntityResolver
	logger    *zap.Logger
}

// NewResolver returns a Resolver with no registered collections.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		resolvers: make(map[Collection]EntityResolver),
		logger:    logger,
	}
}

// Register binds an EntityResolver to a collection, replacing any previous one.
func (r *Resolver) Register(c Collection, resolver EntityResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resolver == nil {
		delete(r.resolvers, c)
		return
	}
	r.resolvers[c] = resolver
}

func (r *Resolver) lookup(segment string) (EntityResolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resolvers[Collection(segment)]
	return res, ok
}

// Resolve builds the trail for path. A segment is looked up as an entity ID
// when it is not a static route and the previous segment is a registered
// collection. Lookup failures fall back to the raw segment and are logged;
// the only returned error is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, path string) ([]Item, error) {
	segs := Segments(path)
	items := make([]Item, 0, len(segs)+1)
	items = append(items, Home)

	current := ""
	for i, seg := range segs {
		current += "/" + seg
		if label, ok := routeNames[seg]; ok {
			items = append(items, Item{Label: label, Path: current})
			continue
		}

		var res EntityResolver
		if i > 0 {
			res, _ = r.lookup(segs[i-1])
		}
		if res == nil {
			items = append(items, Item{Label: TitleCase(seg), Path: current})
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := seg
		name, ok, err := res.ResolveEntityName(ctx, seg)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.logger.Warn("breadcrumb entity lookup failed",
				zap.String("collection", segs[i-1]),
				zap.String("id", seg),
				zap.Error(err))
		case ok && name != "":
			label = name
		}
		items = append(items, Item{Label: label, Path: current})
	}
	return items, nil
}
