package skeleton

import (
	"errors"
	"fmt"
	"math"

	"github.com/phanxgames/skelwidget/atlas"
)

// ErrRegionNotFound is returned when an attachment names an atlas region the
// atlas does not contain.
var ErrRegionNotFound = errors.New("skeleton: atlas region not found")

// Attachment is anything a slot can show.
type Attachment interface {
	AttachmentName() string
}

// AttachmentLoader creates attachments while a skeleton file is read.
type AttachmentLoader interface {
	NewRegionAttachment(skin *Skin, name, path string) (*RegionAttachment, error)
}

// AtlasAttachmentLoader resolves region attachments against an atlas.
type AtlasAttachmentLoader struct {
	Atlas *atlas.Atlas
}

// NewRegionAttachment implements AttachmentLoader.
func (l AtlasAttachmentLoader) NewRegionAttachment(skin *Skin, name, path string) (*RegionAttachment, error) {
	region := l.Atlas.FindRegion(path)
	if region == nil {
		return nil, fmt.Errorf("%w: %q (attachment %q, skin %q)", ErrRegionNotFound, path, name, skin.Name)
	}
	return &RegionAttachment{Name: name, Path: path, Region: region}, nil
}

// Region attachment vertex order: bottom-left, upper-left, upper-right,
// bottom-right. Each vertex is two floats.
const (
	vertBL = 0
	vertUL = 2
	vertUR = 4
	vertBR = 6
)

// RegionAttachment is a textured quad attached to a bone.
type RegionAttachment struct {
	Name          string
	Path          string
	X, Y          float64
	Rotation      float64
	ScaleX        float64
	ScaleY        float64
	Width, Height float64
	Color         Color
	Region        *atlas.Region

	offset [8]float64 // bone-local corners, filled by UpdateOffset
}

// AttachmentName implements Attachment.
func (r *RegionAttachment) AttachmentName() string { return r.Name }

// UpdateOffset recomputes the bone-local corners from the attachment's
// placement and the region's trim. Call after changing placement fields.
func (r *RegionAttachment) UpdateOffset() {
	reg := r.Region
	regionScaleX := r.Width / float64(reg.OriginalWidth) * r.ScaleX
	regionScaleY := r.Height / float64(reg.OriginalHeight) * r.ScaleY
	localX := -r.Width/2*r.ScaleX + float64(reg.OffsetX)*regionScaleX
	localY := -r.Height/2*r.ScaleY + float64(reg.OffsetY)*regionScaleY
	localX2 := localX + float64(reg.Width)*regionScaleX
	localY2 := localY + float64(reg.Height)*regionScaleY

	sin, cos := math.Sincos(r.Rotation * degRad)
	localXCos := localX*cos + r.X
	localXSin := localX * sin
	localYCos := localY*cos + r.Y
	localYSin := localY * sin
	localX2Cos := localX2*cos + r.X
	localX2Sin := localX2 * sin
	localY2Cos := localY2*cos + r.Y
	localY2Sin := localY2 * sin

	o := &r.offset
	o[vertBL], o[vertBL+1] = localXCos-localYSin, localYCos+localXSin
	o[vertUL], o[vertUL+1] = localXCos-localY2Sin, localY2Cos+localXSin
	o[vertUR], o[vertUR+1] = localX2Cos-localY2Sin, localY2Cos+localX2Sin
	o[vertBR], o[vertBR+1] = localX2Cos-localYSin, localYCos+localX2Sin
}

// ComputeWorldVertices writes the four world-space corners of the quad into
// dst, in BL, UL, UR, BR order.
func (r *RegionAttachment) ComputeWorldVertices(bone *Bone, dst *[8]float64) {
	m := bone.World
	for i := 0; i < 8; i += 2 {
		dst[i], dst[i+1] = transformPoint(m, r.offset[i], r.offset[i+1])
	}
}

// UVs returns normalized texture coordinates matching ComputeWorldVertices.
func (r *RegionAttachment) UVs() [8]float64 {
	reg := r.Region
	var uv [8]float64
	if reg.Rotate {
		uv[vertUL], uv[vertUL+1] = reg.U, reg.V2
		uv[vertUR], uv[vertUR+1] = reg.U, reg.V
		uv[vertBR], uv[vertBR+1] = reg.U2, reg.V
		uv[vertBL], uv[vertBL+1] = reg.U2, reg.V2
	} else {
		uv[vertBL], uv[vertBL+1] = reg.U, reg.V2
		uv[vertUL], uv[vertUL+1] = reg.U, reg.V
		uv[vertUR], uv[vertUR+1] = reg.U2, reg.V
		uv[vertBR], uv[vertBR+1] = reg.U2, reg.V2
	}
	return uv
}
