package composite

import (
	"math"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/cache"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/internal/parallel"
	"github.com/lumakit/luma/ir"
)

// Options configures a Compositor.
type Options struct {
	// Workers sets the worker pool size; non-positive uses GOMAXPROCS.
	Workers int
	// CoverageCapacity is the per-shard coverage cache capacity;
	// non-positive uses the cache default.
	CoverageCapacity int
}

// Compositor executes command streams into pixel buffers. Geometry
// comes from the frozen path registry; image assets are installed up
// front with SetAsset. A Compositor is safe for concurrent Render
// calls once assets are installed.
type Compositor struct {
	registry *ir.PathRegistry
	assets   map[ir.AssetID]*Buffer
	pool     *parallel.WorkerPool
	coverage *cache.Sharded[uint64, []float32]
}

// NewCompositor builds a compositor over a frozen registry.
func NewCompositor(registry *ir.PathRegistry, opts Options) *Compositor {
	return &Compositor{
		registry: registry,
		assets:   make(map[ir.AssetID]*Buffer),
		pool:     parallel.NewWorkerPool(opts.Workers),
		coverage: cache.NewSharded[uint64, []float32](opts.CoverageCapacity, cache.Uint64Hasher),
	}
}

// SetAsset installs a decoded image asset. Not safe to call
// concurrently with Render.
func (c *Compositor) SetAsset(id ir.AssetID, buf *Buffer) {
	c.assets[id] = buf
}

// CoverageStats reports coverage cache counters.
func (c *Compositor) CoverageStats() cache.Stats {
	return c.coverage.Stats()
}

// Close releases the worker pool.
func (c *Compositor) Close() {
	c.pool.Close()
}

// Render executes a command stream into a fresh buffer of the given
// size. A structurally broken stream fails as a whole; no partial
// frame is returned.
func (c *Compositor) Render(cmds []command.Command, w, h int) (*Buffer, error) {
	if err := command.Validate(cmds); err != nil {
		return nil, err
	}
	dst := NewBuffer(w, h)
	st := execState{ctm: luma.Identity(), width: w, height: h}
	if err := c.exec(cmds, dst, st); err != nil {
		return nil, err
	}
	return dst, nil
}

// execState is the mutable interpreter state of one exec call. Scope
// recursion derives a child state carrying the current transform and
// clip but fresh stacks.
type execState struct {
	ctm      luma.Matrix
	ctmStack []luma.Matrix

	// clip is the accumulated device-space clip coverage, nil when
	// unclipped.
	clip      []float32
	clipStack [][]float32

	width, height int
}

func (st execState) child() execState {
	return execState{ctm: st.ctm, clip: st.clip, width: st.width, height: st.height}
}

func (c *Compositor) exec(cmds []command.Command, dst *Buffer, st execState) error {
	for i := 0; i < len(cmds); i++ {
		switch cmd := cmds[i].(type) {
		case command.BeginGroup, command.EndGroup:
			// Structural only.

		case command.PushTransform:
			st.ctmStack = append(st.ctmStack, st.ctm)
			st.ctm = st.ctm.Multiply(cmd.Matrix)
		case command.PopTransform:
			n := len(st.ctmStack)
			if n == 0 {
				return &ScopeError{Index: i, Reason: "transform pop without matching push"}
			}
			st.ctm = st.ctmStack[n-1]
			st.ctmStack = st.ctmStack[:n-1]

		case command.PushClipRect:
			st.clipStack = append(st.clipStack, st.clip)
			st.clip = c.intersectClipRect(st.clip, cmd, st)
		case command.PopClipRect:
			n := len(st.clipStack)
			if n == 0 {
				return &ScopeError{Index: i, Reason: "clip pop without matching push"}
			}
			st.clip = st.clipStack[n-1]
			st.clipStack = st.clipStack[:n-1]

		case command.BeginMask:
			scope, err := ExtractMaskScope(cmds, i)
			if err != nil {
				return err
			}
			if err := c.execMaskScope(scope, dst, st); err != nil {
				return err
			}
			i = scope.End - 1

		case command.BeginMatte:
			scope, err := ExtractMatteScope(cmds, i)
			if err != nil {
				return err
			}
			if err := c.execMatteScope(scope, dst, st); err != nil {
				return err
			}
			i = scope.End - 1

		case command.EndMask:
			return &ScopeError{Index: i, Reason: "mask close without matching open"}
		case command.EndMatte:
			return &ScopeError{Index: i, Reason: "matte close without matching open"}

		case command.DrawImage:
			c.drawImage(dst, cmd, st)
		case command.DrawPath:
			c.drawPath(dst, cmd, st)
		}
	}
	return nil
}

// execMaskScope renders the scope's inner content into a scratch
// buffer, accumulates the mask chain's coverage in declaration order,
// multiplies, and composites over dst.
func (c *Compositor) execMaskScope(scope *MaskScope, dst *Buffer, st execState) error {
	w, h := st.width, st.height
	inner := NewBuffer(w, h)
	if err := c.exec(scope.Inner, inner, st.child()); err != nil {
		return err
	}

	acc := NewAccumulator(w*h, scope.Ops[0].Mode)
	for _, op := range scope.Ops {
		// Ops run in declared order; each combine reads the previous
		// accumulator, so only pixels parallelize.
		op := op
		cov := c.coverageFor(op.Path, st.ctm, w, h)
		c.pool.ForRows(h, func(y0, y1 int) {
			CombineRows(acc, cov, op, y0*w, y1*w)
		})
	}

	c.pool.ForRows(h, func(y0, y1 int) {
		ApplyCoverageRows(inner, acc, y0, y1)
		dst.OverRows(inner, y0, y1)
	})
	return nil
}

// execMatteScope renders source and consumer content into scratch
// buffers, applies the per-pixel matte factor, and composites the
// result over dst. The source group carries its own world transform,
// so it evaluates against the transform and clip in effect before the
// consumer's own push. Inside a nested composition that base holds the
// host's transform, keeping source and consumer aligned.
func (c *Compositor) execMatteScope(scope *MatteScope, dst *Buffer, st execState) error {
	w, h := st.width, st.height
	source := NewBuffer(w, h)
	if len(scope.Source) > 0 {
		base := st.ctm
		if n := len(st.ctmStack); n > 0 {
			base = st.ctmStack[n-1]
		}
		iso := execState{ctm: base, clip: st.clip, width: w, height: h}
		if err := c.exec(scope.Source, source, iso); err != nil {
			return err
		}
	}

	content := NewBuffer(w, h)
	if err := c.exec(scope.Content, content, st.child()); err != nil {
		return err
	}

	mode := scope.Begin.Mode
	c.pool.ForRows(h, func(y0, y1 int) {
		ApplyMatteRows(content, source, mode, y0, y1)
		dst.OverRows(content, y0, y1)
	})
	return nil
}

// drawPath fills a registered geometry with a solid color.
func (c *Compositor) drawPath(dst *Buffer, cmd command.DrawPath, st execState) {
	cov := c.coverageFor(cmd.Path, st.ctm, st.width, st.height)

	a := float32(cmd.Color[3] * cmd.Opacity)
	pr := float32(cmd.Color[0]) * a
	pg := float32(cmd.Color[1]) * a
	pb := float32(cmd.Color[2]) * a

	w := st.width
	clip := st.clip
	c.pool.ForRows(st.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				f := cov[y*w+x]
				if clip != nil {
					f *= clip[y*w+x]
				}
				if f <= 0 {
					continue
				}
				dst.blendOver(x, y, pr*f, pg*f, pb*f, a*f)
			}
		}
	})
}

// drawImage samples an installed asset through the inverse transform.
// Unknown assets draw nothing.
func (c *Compositor) drawImage(dst *Buffer, cmd command.DrawImage, st execState) {
	src, ok := c.assets[cmd.Asset]
	if !ok {
		return
	}
	inv := st.ctm.Invert()
	opacity := float32(cmd.Opacity)
	w := st.width
	clip := st.clip

	c.pool.ForRows(st.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				p := inv.TransformPoint(luma.Pt(float64(x)+0.5, float64(y)+0.5))
				r, g, b, a := sampleBilinear(src, p.X-0.5, p.Y-0.5)
				if a <= 0 && r <= 0 && g <= 0 && b <= 0 {
					continue
				}
				f := opacity
				if clip != nil {
					f *= clip[y*w+x]
				}
				if f <= 0 {
					continue
				}
				dst.blendOver(x, y, r*f, g*f, b*f, a*f)
			}
		}
	})
}

// sampleBilinear samples a premultiplied buffer at fractional
// coordinates; areas outside the buffer are transparent.
func sampleBilinear(b *Buffer, x, y float64) (r, g, bl, a float32) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))

	r00, g00, b00, a00 := b.At(x0, y0)
	r10, g10, b10, a10 := b.At(x0+1, y0)
	r01, g01, b01, a01 := b.At(x0, y0+1)
	r11, g11, b11, a11 := b.At(x0+1, y0+1)

	lerp := func(v00, v10, v01, v11 float32) float32 {
		top := v00 + (v10-v00)*fx
		bot := v01 + (v11-v01)*fx
		return top + (bot-top)*fy
	}
	return lerp(r00, r10, r01, r11), lerp(g00, g10, g01, g11),
		lerp(b00, b10, b01, b11), lerp(a00, a10, a01, a11)
}

// intersectClipRect rasterizes the transformed clip rectangle and
// multiplies it into the current clip coverage.
func (c *Compositor) intersectClipRect(clip []float32, cmd command.PushClipRect, st execState) []float32 {
	rect := ir.Path{Contours: []ir.Contour{{
		Closed: true,
		Vertices: []ir.Vertex{
			{Point: luma.Pt(cmd.X, cmd.Y)},
			{Point: luma.Pt(cmd.X+cmd.Width, cmd.Y)},
			{Point: luma.Pt(cmd.X+cmd.Width, cmd.Y+cmd.Height)},
			{Point: luma.Pt(cmd.X, cmd.Y+cmd.Height)},
		},
	}}}
	cov := Rasterize(rect, st.ctm, st.width, st.height)
	if clip != nil {
		for i := range cov {
			cov[i] *= clip[i]
		}
	}
	return cov
}

// coverageFor returns cached rasterized coverage for a geometry under
// a transform. Unknown ids yield empty coverage.
func (c *Compositor) coverageFor(id ir.PathID, m luma.Matrix, w, h int) []float32 {
	key := coverageKey(id, m, w, h)
	return c.coverage.GetOrCreate(key, func() []float32 {
		p, ok := c.registry.Lookup(id)
		if !ok {
			return make([]float32, w*h)
		}
		return Rasterize(p, m, w, h)
	})
}

// coverageKey mixes the geometry id, quantized transform, and target
// size into one cache key (FNV-1a over the raw fields).
func coverageKey(id ir.PathID, m luma.Matrix, w, h int) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	key := uint64(offset64)
	mix := func(v uint64) {
		for s := 0; s < 64; s += 8 {
			key ^= (v >> s) & 0xff
			key *= prime64
		}
	}
	quant := func(f float64) uint64 {
		return uint64(int64(math.Round(f * 4096)))
	}
	mix(uint64(id))
	mix(quant(m.A))
	mix(quant(m.B))
	mix(quant(m.C))
	mix(quant(m.D))
	mix(quant(m.E))
	mix(quant(m.F))
	mix(uint64(w)<<32 | uint64(h))
	return key
}
