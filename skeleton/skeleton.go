package skeleton

import (
	"errors"
	"fmt"
)

// ErrUnknownSkin is returned by SetSkinByName for a skin the data lacks.
var ErrUnknownSkin = errors.New("skeleton: unknown skin")

// Bone is the runtime pose of a BoneData. Local fields are written by
// timelines; World is derived by Skeleton.UpdateWorldTransform.
type Bone struct {
	Data     *BoneData
	Parent   *Bone
	Children []*Bone

	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	ShearX   float64
	ShearY   float64

	// World is the bone-to-skeleton-space matrix in [a, b, c, d, tx, ty]
	// layout; World[4], World[5] are the bone's world position.
	World [6]float64
}

// SetToSetupPose copies the setup pose from the bone's data.
func (b *Bone) SetToSetupPose() {
	d := b.Data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// WorldX returns the bone's world-space x.
func (b *Bone) WorldX() float64 { return b.World[4] }

// WorldY returns the bone's world-space y.
func (b *Bone) WorldY() float64 { return b.World[5] }

// Slot is the runtime state of a SlotData.
type Slot struct {
	Data       *SlotData
	Bone       *Bone
	Color      Color
	Attachment Attachment
	skeleton   *Skeleton
}

// SetAttachment replaces the visible attachment. nil hides the slot.
func (s *Slot) SetAttachment(att Attachment) {
	s.Attachment = att
}

// SetToSetupPose restores the slot's setup color and attachment.
func (s *Slot) SetToSetupPose() {
	s.Color = s.Data.Color
	if s.Data.AttachmentName == "" {
		s.Attachment = nil
		return
	}
	s.Attachment = s.skeleton.GetAttachment(s.Data.Index, s.Data.AttachmentName)
}

// Skeleton is one posable instance of a SkeletonData.
type Skeleton struct {
	Data      *SkeletonData
	Bones     []*Bone
	Slots     []*Slot
	DrawOrder []*Slot
	Skin      *Skin
	Color     Color
	X, Y      float64
}

// NewSkeleton creates a skeleton in its setup pose. World transforms are not
// computed until UpdateWorldTransform is called.
func NewSkeleton(data *SkeletonData) *Skeleton {
	sk := &Skeleton{Data: data, Color: White}
	sk.Bones = make([]*Bone, len(data.Bones))
	for i, bd := range data.Bones {
		b := &Bone{Data: bd, World: identityTransform}
		if bd.Parent != nil {
			b.Parent = sk.Bones[bd.Parent.Index]
			b.Parent.Children = append(b.Parent.Children, b)
		}
		sk.Bones[i] = b
	}
	sk.Slots = make([]*Slot, len(data.Slots))
	sk.DrawOrder = make([]*Slot, len(data.Slots))
	for i, sd := range data.Slots {
		s := &Slot{Data: sd, Bone: sk.Bones[sd.Bone.Index], skeleton: sk}
		sk.Slots[i] = s
		sk.DrawOrder[i] = s
	}
	sk.SetToSetupPose()
	return sk
}

// UpdateWorldTransform recomputes every bone's world matrix from its local
// pose. Bones are stored parent-first so one pass suffices.
func (sk *Skeleton) UpdateWorldTransform() {
	root := [6]float64{1, 0, 0, 1, sk.X, sk.Y}
	for _, b := range sk.Bones {
		local := localTransform(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
		if b.Parent == nil {
			b.World = multiplyAffine(root, local)
			continue
		}
		b.World = multiplyAffine(b.Parent.World, local)
	}
}

// SetToSetupPose resets bones, slots and draw order to the setup pose.
func (sk *Skeleton) SetToSetupPose() {
	sk.SetBonesToSetupPose()
	sk.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets every bone's local pose.
func (sk *Skeleton) SetBonesToSetupPose() {
	for _, b := range sk.Bones {
		b.SetToSetupPose()
	}
}

// SetSlotsToSetupPose resets slot colors, attachments and draw order.
func (sk *Skeleton) SetSlotsToSetupPose() {
	copy(sk.DrawOrder, sk.Slots)
	for _, s := range sk.Slots {
		s.SetToSetupPose()
	}
}

// FindBone returns the runtime bone with the given name, or nil.
func (sk *Skeleton) FindBone(name string) *Bone {
	for _, b := range sk.Bones {
		if b.Data.Name == name {
			return b
		}
	}
	return nil
}

// FindSlot returns the runtime slot with the given name, or nil.
func (sk *Skeleton) FindSlot(name string) *Slot {
	for _, s := range sk.Slots {
		if s.Data.Name == name {
			return s
		}
	}
	return nil
}

// SetSkinByName activates the named skin. The default skin is always
// available under its own name.
func (sk *Skeleton) SetSkinByName(name string) error {
	var skin *Skin
	if sk.Data.DefaultSkin != nil && sk.Data.DefaultSkin.Name == name {
		skin = sk.Data.DefaultSkin
	} else {
		skin = sk.Data.FindSkin(name)
	}
	if skin == nil {
		return fmt.Errorf("%w: %q", ErrUnknownSkin, name)
	}
	sk.SetSkin(skin)
	return nil
}

// SetSkin activates skin. Attachments from the previous skin that are
// visible are swapped for same-named attachments in the new one; with no
// previous skin, each slot shows its setup attachment if the new skin has it.
func (sk *Skeleton) SetSkin(skin *Skin) {
	if skin != nil {
		if sk.Skin != nil {
			skin.attachAll(sk, sk.Skin)
		} else {
			for i, s := range sk.Slots {
				if name := s.Data.AttachmentName; name != "" {
					if att := skin.Attachment(i, name); att != nil {
						s.SetAttachment(att)
					}
				}
			}
		}
	}
	sk.Skin = skin
}

// GetAttachment looks up an attachment in the active skin, then in the
// default skin.
func (sk *Skeleton) GetAttachment(slotIndex int, name string) Attachment {
	if sk.Skin != nil {
		if att := sk.Skin.Attachment(slotIndex, name); att != nil {
			return att
		}
	}
	if sk.Data.DefaultSkin != nil {
		return sk.Data.DefaultSkin.Attachment(slotIndex, name)
	}
	return nil
}
