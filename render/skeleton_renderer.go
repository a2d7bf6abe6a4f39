package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/skelwidget/skeleton"
)

// SkeletonDrawer emits a posed skeleton's geometry into a Batcher.
type SkeletonDrawer interface {
	SetPremultipliedAlpha(premultiplied bool)
	Draw(b Batcher, sk *skeleton.Skeleton)
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// SkeletonRenderer draws region attachments as textured quads in draw order.
type SkeletonRenderer struct {
	PremultipliedAlpha bool

	world [8]float64
	quad  [4]ebiten.Vertex
}

// NewSkeletonRenderer creates a renderer for straight-alpha textures.
func NewSkeletonRenderer() *SkeletonRenderer {
	return &SkeletonRenderer{}
}

// SetPremultipliedAlpha implements SkeletonDrawer.
func (r *SkeletonRenderer) SetPremultipliedAlpha(premultiplied bool) {
	r.PremultipliedAlpha = premultiplied
}

// Draw implements SkeletonDrawer. World transforms must be current.
func (r *SkeletonRenderer) Draw(b Batcher, sk *skeleton.Skeleton) {
	for _, slot := range sk.DrawOrder {
		region, ok := slot.Attachment.(*skeleton.RegionAttachment)
		if !ok || region.Region == nil || region.Region.Page == nil {
			continue
		}
		tex := region.Region.Page.Texture
		if tex == nil {
			continue
		}
		tint := sk.Color.Mul(slot.Color).Mul(region.Color)
		if tint.A <= 0 {
			continue
		}

		region.ComputeWorldVertices(slot.Bone, &r.world)
		uvs := region.UVs()
		// Ebitengine expects premultiplied vertex colors.
		a := float32(tint.A)
		cr, cg, cb := float32(tint.R)*a, float32(tint.G)*a, float32(tint.B)*a
		for i := range r.quad {
			r.quad[i] = ebiten.Vertex{
				DstX:   float32(r.world[i*2]),
				DstY:   float32(r.world[i*2+1]),
				SrcX:   float32(uvs[i*2]),
				SrcY:   float32(uvs[i*2+1]),
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: a,
			}
		}

		b.SetBlendMode(BlendFromSlot(slot.Data.Blend), r.PremultipliedAlpha)
		b.Draw(tex, r.quad[:], quadIndices)
	}
}
