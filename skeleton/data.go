package skeleton

// BlendMode selects how a slot's attachment composites onto what is already
// drawn.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over
	BlendAdditive                  // lighter
	BlendMultiply                  // source * destination
	BlendScreen                    // 1 - (1-src)*(1-dst)
)

// SkeletonData is the immutable, shareable definition read from a skeleton
// file. Runtime state lives in Skeleton.
type SkeletonData struct {
	Name       string
	Hash       string
	Version    string
	Width      float64
	Height     float64
	Bones      []*BoneData // parents always precede children
	Slots      []*SlotData // setup-pose draw order
	Skins      []*Skin
	Animations []*Animation

	// DefaultSkin holds attachments not assigned to a named skin. It is
	// consulted when the active skin lacks an attachment.
	DefaultSkin *Skin
}

// FindBone returns the bone with the given name, or nil.
func (d *SkeletonData) FindBone(name string) *BoneData {
	for _, b := range d.Bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// FindSlot returns the slot with the given name, or nil.
func (d *SkeletonData) FindSlot(name string) *SlotData {
	for _, s := range d.Slots {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindSkin returns the skin with the given name, or nil.
func (d *SkeletonData) FindSkin(name string) *Skin {
	for _, s := range d.Skins {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindAnimation returns the animation with the given name, or nil.
func (d *SkeletonData) FindAnimation(name string) *Animation {
	for _, a := range d.Animations {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AnimationNames lists animation names in file order.
func (d *SkeletonData) AnimationNames() []string {
	names := make([]string, len(d.Animations))
	for i, a := range d.Animations {
		names[i] = a.Name
	}
	return names
}

// BoneData is the setup pose of one bone.
type BoneData struct {
	Index    int
	Name     string
	Parent   *BoneData
	Length   float64
	X, Y     float64
	Rotation float64 // degrees
	ScaleX   float64
	ScaleY   float64
	ShearX   float64
	ShearY   float64
}

// SlotData is the setup pose of one slot.
type SlotData struct {
	Index          int
	Name           string
	Bone           *BoneData
	Color          Color
	AttachmentName string // visible in the setup pose; empty for none
	Blend          BlendMode
}

type skinKey struct {
	slot int
	name string
}

// Skin maps (slot, attachment name) to attachments.
type Skin struct {
	Name        string
	attachments map[skinKey]Attachment
}

// NewSkin creates an empty skin.
func NewSkin(name string) *Skin {
	return &Skin{Name: name, attachments: make(map[skinKey]Attachment)}
}

// AddAttachment stores att for the slot under name, replacing any previous one.
func (s *Skin) AddAttachment(slotIndex int, name string, att Attachment) {
	s.attachments[skinKey{slotIndex, name}] = att
}

// Attachment returns the attachment for the slot and name, or nil.
func (s *Skin) Attachment(slotIndex int, name string) Attachment {
	return s.attachments[skinKey{slotIndex, name}]
}

// attachAll sets, for every slot of sk currently showing an attachment from
// old, the attachment of the same name from s.
func (s *Skin) attachAll(sk *Skeleton, old *Skin) {
	for key, att := range old.attachments {
		slot := sk.Slots[key.slot]
		if slot.Attachment != att {
			continue
		}
		if repl := s.Attachment(key.slot, key.name); repl != nil {
			slot.SetAttachment(repl)
		}
	}
}
