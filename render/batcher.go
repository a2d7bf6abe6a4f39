package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultMaxVertices bounds one batch. Indices are uint16, so a batch can
// never address more than 65536 vertices.
const DefaultMaxVertices = 10920

// Batcher accumulates triangles and flushes them in as few draw calls as the
// texture and blend changes allow.
type Batcher interface {
	Begin(s Shader)
	// SetBlendMode flushes if the mode differs from the current one.
	SetBlendMode(mode BlendMode, premultipliedAlpha bool)
	// Draw queues triangles. Vertex positions are in projection space (the
	// shader's MVP is applied on flush); SrcX/SrcY are normalized texture
	// coordinates; colors are premultiplied.
	Draw(texture *ebiten.Image, vertices []ebiten.Vertex, indices []uint16)
	End()
}

// BatchStats counts what the last Begin/End pair submitted.
type BatchStats struct {
	DrawCalls int
	Vertices  int
	Triangles int
}

// batchKey groups geometry that can be submitted in a single draw call.
type batchKey struct {
	texture       *ebiten.Image
	blend         BlendMode
	premultiplied bool
}

// PolygonBatcher is a Batcher that draws onto an ebiten.Image.
type PolygonBatcher struct {
	target      *ebiten.Image
	shader      Shader
	drawing     bool
	key         batchKey
	maxVertices int

	vertices []ebiten.Vertex
	indices  []uint16
	uniforms map[string]any
	stats    BatchStats
}

// NewPolygonBatcher creates a batcher drawing onto target.
func NewPolygonBatcher(target *ebiten.Image, maxVertices int) *PolygonBatcher {
	if maxVertices <= 0 || maxVertices > 65536 {
		maxVertices = DefaultMaxVertices
	}
	return &PolygonBatcher{
		target:      target,
		maxVertices: maxVertices,
		vertices:    make([]ebiten.Vertex, 0, maxVertices),
		indices:     make([]uint16, 0, maxVertices*3),
		uniforms:    make(map[string]any),
	}
}

// Begin implements Batcher.
func (b *PolygonBatcher) Begin(s Shader) {
	if b.drawing {
		panic("render: PolygonBatcher.Begin called twice without End")
	}
	if !s.Bound() {
		panic("render: PolygonBatcher.Begin with an unbound shader")
	}
	b.shader = s
	b.drawing = true
	b.key = batchKey{}
	b.stats = BatchStats{}
}

// SetBlendMode implements Batcher.
func (b *PolygonBatcher) SetBlendMode(mode BlendMode, premultipliedAlpha bool) {
	if b.key.blend == mode && b.key.premultiplied == premultipliedAlpha {
		return
	}
	b.flush()
	b.key.blend = mode
	b.key.premultiplied = premultipliedAlpha
}

// Draw implements Batcher.
func (b *PolygonBatcher) Draw(texture *ebiten.Image, vertices []ebiten.Vertex, indices []uint16) {
	if !b.drawing {
		panic("render: PolygonBatcher.Draw outside Begin/End")
	}
	if len(vertices) > b.maxVertices {
		return
	}
	if texture != b.key.texture {
		b.flush()
		b.key.texture = texture
	} else if len(b.vertices)+len(vertices) > b.maxVertices {
		b.flush()
	}

	base := uint16(len(b.vertices))
	b.vertices = append(b.vertices, vertices...)
	for _, i := range indices {
		b.indices = append(b.indices, base+i)
	}
}

// End implements Batcher.
func (b *PolygonBatcher) End() {
	if !b.drawing {
		panic("render: PolygonBatcher.End without Begin")
	}
	b.flush()
	b.drawing = false
	b.shader = nil
}

// Stats returns the counters of the last Begin/End pair.
func (b *PolygonBatcher) Stats() BatchStats {
	return b.stats
}

// flush projects the queued vertices into target pixels and submits them.
func (b *PolygonBatcher) flush() {
	if len(b.vertices) == 0 || b.key.texture == nil {
		b.vertices = b.vertices[:0]
		b.indices = b.indices[:0]
		return
	}

	tb := b.target.Bounds()
	w, h := float32(tb.Dx()), float32(tb.Dy())
	sb := b.key.texture.Bounds()
	sw, sh := float32(sb.Dx()), float32(sb.Dy())
	sx, sy := float32(sb.Min.X), float32(sb.Min.Y)

	proj := b.shader.Projection()
	for i := range b.vertices {
		v := &b.vertices[i]
		nx, ny := proj.Project(v.DstX, v.DstY)
		v.DstX = (nx + 1) * 0.5 * w
		v.DstY = (1 - ny) * 0.5 * h
		v.SrcX = sx + v.SrcX*sw
		v.SrcY = sy + v.SrcY*sh
	}

	blend := b.key.blend.EbitenBlend()
	if prog := b.shader.Program(); prog != nil {
		for k := range b.uniforms {
			delete(b.uniforms, k)
		}
		for k, v := range b.shader.Uniforms() {
			b.uniforms[k] = v
		}
		var pm float32
		if b.key.premultiplied {
			pm = 1
		}
		b.uniforms["Premultiplied"] = pm

		op := &ebiten.DrawTrianglesShaderOptions{Uniforms: b.uniforms, Blend: blend}
		op.Images[b.shader.Sampler()] = b.key.texture
		b.target.DrawTrianglesShader(b.vertices, b.indices, prog, op)
	} else {
		op := &ebiten.DrawTrianglesOptions{Blend: blend}
		b.target.DrawTriangles(b.vertices, b.indices, b.key.texture, op)
	}

	b.stats.DrawCalls++
	b.stats.Vertices += len(b.vertices)
	b.stats.Triangles += len(b.indices) / 3
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}
