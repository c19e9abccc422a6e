package visual

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Loader returns the shared template for a model URI. *assets.Cache
// implements it.
type Loader interface {
	Load(ctx context.Context, uri string) (*model.Node, error)
}

// State tracks which visual a handle currently shows.
type State int

const (
	// StateProcedural shows the primitive stand-in and nothing is loading.
	StateProcedural State = iota
	// StateLoading shows the stand-in while the model loads.
	StateLoading
	// StateLoaded shows the normalized external model.
	StateLoaded
	// StateFallback shows the stand-in because the load failed.
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateProcedural:
		return "procedural"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Handle is a placed visual. Its root node is stable for the handle's
// lifetime; the visual under it is swapped when a load completes.
type Handle struct {
	key         assets.Key
	desc        assets.Descriptor
	root        *model.Node
	visual      *Visual
	state       State
	highlighted bool
	cancel      context.CancelFunc
	released    bool
}

// Key returns the asset key the handle was built for.
func (h *Handle) Key() assets.Key { return h.key }

// Node returns the handle's root node.
func (h *Handle) Node() *model.Node { return h.root }

// State returns the current visual state.
func (h *Handle) State() State { return h.state }

// Highlighted reports the current emphasis state.
func (h *Handle) Highlighted() bool { return h.highlighted }

// SetHighlighted sets the emphasis on the current visual and on any visual
// swapped in later.
func (h *Handle) SetHighlighted(on bool) {
	h.highlighted = on
	h.visual.SetHighlighted(on)
}

// Release cancels any in-flight load. Results arriving afterwards are dropped.
func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *Handle) show(v *Visual, state State) {
	v.SetHighlighted(h.highlighted)
	h.visual = v
	h.state = state
	h.root.Children = []*model.Node{v.Root}
}

// Factory builds handles for asset keys.
type Factory struct {
	registry *assets.Registry
	loader   Loader
	mailbox  *Mailbox
	log      *zap.Logger
}

// NewFactory creates a factory. A nil loader builds procedural visuals only.
func NewFactory(registry *assets.Registry, loader Loader, log *zap.Logger) *Factory {
	if registry == nil {
		registry = assets.DefaultRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{registry: registry, loader: loader, mailbox: NewMailbox(), log: log}
}

// Mailbox returns the queue of finished loads.
func (f *Factory) Mailbox() *Mailbox { return f.mailbox }

// Build returns a handle for key. It never fails: keys with a model source
// show their procedural visual until the model arrives, and keep it if the
// load fails.
func (f *Factory) Build(key assets.Key, highlighted bool) *Handle {
	desc := f.registry.Lookup(key)
	h := &Handle{
		key:         key,
		desc:        desc,
		root:        model.NewGroup("visual:" + key.String()),
		highlighted: highlighted,
	}
	h.show(NewVisual(Procedural(key)), StateProcedural)

	if desc.HasSource() && f.loader != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		h.state = StateLoading
		go f.load(ctx, h, desc.SourceURI)
	}
	return h
}

func (f *Factory) load(ctx context.Context, h *Handle, uri string) {
	tmpl, err := f.loader.Load(ctx, uri)
	f.mailbox.Post(loadResult{handle: h, template: tmpl, err: err})
}

// Drain applies finished loads to their handles. Call it once per frame from
// the frame loop. It returns the number of models swapped in.
func (f *Factory) Drain() int {
	applied := 0
	for _, r := range f.mailbox.Drain() {
		h := r.handle
		if h.released {
			continue
		}
		h.cancel()

		if r.err != nil {
			h.state = StateFallback
			if !errors.Is(r.err, context.Canceled) {
				f.log.Warn("model unavailable, keeping procedural visual",
					zap.Stringer("key", h.key),
					zap.String("uri", h.desc.SourceURI),
					zap.Error(r.err))
			}
			continue
		}

		h.show(NewVisual(Normalize(r.template, h.desc)), StateLoaded)
		applied++
	}
	return applied
}

// Normalize clones tmpl and scales it uniformly so its largest bounding
// dimension equals the descriptor's target times its scale, then applies the
// descriptor's offset and rotation. Degenerate bounds fall back to the plain
// scale.
func Normalize(tmpl *model.Node, desc assets.Descriptor) *model.Node {
	inst := tmpl.Clone()

	scale := desc.Scale
	if !(scale > 0) {
		scale = 1
	}
	target := desc.NormalizationTarget
	if !(target > 0) {
		target = assets.DefaultNormalizationTarget
	}

	b := inst.Bounds(math.Identity())
	if size := b.Size().MaxComponent(); b.Valid() && math.IsFinite(size) && size > 0 {
		scale *= target / size
	}

	placed := model.NewGroup("normalized")
	placed.Transform = model.Transform{
		Translation: desc.Offset,
		Rotation:    math.QuatFromEuler(desc.Rotation.X, desc.Rotation.Y, desc.Rotation.Z),
		Scale:       math.V3(scale, scale, scale),
	}
	return placed.Add(inst)
}
