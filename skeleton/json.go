package skeleton

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
)

// --- JSON structure types ---

type jsonSkeleton struct {
	Skeleton struct {
		Hash   string  `json:"hash"`
		Spine  string  `json:"spine"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"skeleton"`
	Bones      []jsonBone                                       `json:"bones"`
	Slots      []jsonSlot                                       `json:"slots"`
	Skins      map[string]map[string]map[string]jsonAttachment `json:"skins"`
	Animations map[string]jsonAnimation                         `json:"animations"`
}

type jsonBone struct {
	Name     string  `json:"name"`
	Parent   string  `json:"parent"`
	Length   float64 `json:"length"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	ShearX   float64 `json:"shearX"`
	ShearY   float64 `json:"shearY"`
}

// UnmarshalJSON fills the defaults a skeleton file omits.
func (b *jsonBone) UnmarshalJSON(data []byte) error {
	type plain jsonBone
	p := plain{ScaleX: 1, ScaleY: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = jsonBone(p)
	return nil
}

type jsonSlot struct {
	Name       string `json:"name"`
	Bone       string `json:"bone"`
	Color      string `json:"color"`
	Attachment string `json:"attachment"`
	Blend      string `json:"blend"`
}

type jsonAttachment struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
}

// UnmarshalJSON fills the defaults a skeleton file omits.
func (a *jsonAttachment) UnmarshalJSON(data []byte) error {
	type plain jsonAttachment
	p := plain{Type: "region", ScaleX: 1, ScaleY: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = jsonAttachment(p)
	return nil
}

type jsonAnimation struct {
	Bones map[string]map[string][]jsonKey `json:"bones"`
	Slots map[string]map[string][]jsonKey `json:"slots"`
}

type jsonKey struct {
	Time  float64         `json:"time"`
	Angle float64         `json:"angle"`
	X     *float64        `json:"x"`
	Y     *float64        `json:"y"`
	Color string          `json:"color"`
	Name  *string         `json:"name"`
	Curve json.RawMessage `json:"curve"`
}

// ReadJSON parses skeleton JSON. Positions, lengths and attachment sizes are
// multiplied by scale. Attachments are created through loader.
func ReadJSON(data []byte, loader AttachmentLoader, scale float64) (*SkeletonData, error) {
	var root jsonSkeleton
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("skeleton: failed to parse JSON: %w", err)
	}

	sd := &SkeletonData{
		Hash:    root.Skeleton.Hash,
		Version: root.Skeleton.Spine,
		Width:   root.Skeleton.Width,
		Height:  root.Skeleton.Height,
	}

	for i, jb := range root.Bones {
		bd := &BoneData{
			Index:    i,
			Name:     jb.Name,
			Length:   jb.Length * scale,
			X:        jb.X * scale,
			Y:        jb.Y * scale,
			Rotation: jb.Rotation,
			ScaleX:   jb.ScaleX,
			ScaleY:   jb.ScaleY,
			ShearX:   jb.ShearX,
			ShearY:   jb.ShearY,
		}
		if jb.Parent != "" {
			bd.Parent = sd.FindBone(jb.Parent)
			if bd.Parent == nil {
				return nil, fmt.Errorf("skeleton: bone %q: parent %q not found (parents must precede children)", jb.Name, jb.Parent)
			}
		}
		sd.Bones = append(sd.Bones, bd)
	}

	for i, js := range root.Slots {
		bone := sd.FindBone(js.Bone)
		if bone == nil {
			return nil, fmt.Errorf("skeleton: slot %q: bone %q not found", js.Name, js.Bone)
		}
		slot := &SlotData{Index: i, Name: js.Name, Bone: bone, Color: White, AttachmentName: js.Attachment}
		if js.Color != "" {
			c, err := ParseHexColor(js.Color)
			if err != nil {
				return nil, fmt.Errorf("skeleton: slot %q: %w", js.Name, err)
			}
			slot.Color = c
		}
		blend, err := parseBlend(js.Blend)
		if err != nil {
			return nil, fmt.Errorf("skeleton: slot %q: %w", js.Name, err)
		}
		slot.Blend = blend
		sd.Slots = append(sd.Slots, slot)
	}

	if err := readSkins(sd, root.Skins, loader, scale); err != nil {
		return nil, err
	}

	// JSON objects carry no order; animations are kept sorted by name.
	names := make([]string, 0, len(root.Animations))
	for name := range root.Animations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		anim, err := readAnimation(sd, name, root.Animations[name], scale)
		if err != nil {
			return nil, err
		}
		sd.Animations = append(sd.Animations, anim)
	}
	return sd, nil
}

func parseBlend(s string) (BlendMode, error) {
	switch s {
	case "", "normal":
		return BlendNormal, nil
	case "additive":
		return BlendAdditive, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

func readSkins(sd *SkeletonData, skins map[string]map[string]map[string]jsonAttachment, loader AttachmentLoader, scale float64) error {
	skinNames := make([]string, 0, len(skins))
	for name := range skins {
		skinNames = append(skinNames, name)
	}
	sort.Strings(skinNames)

	for _, skinName := range skinNames {
		skin := NewSkin(skinName)
		for slotName, atts := range skins[skinName] {
			slot := sd.FindSlot(slotName)
			if slot == nil {
				return fmt.Errorf("skeleton: skin %q: slot %q not found", skinName, slotName)
			}
			for key, ja := range atts {
				if ja.Type != "region" {
					log.Printf("skelwidget: skin %q slot %q: %s attachment %q not supported, skipped", skinName, slotName, ja.Type, key)
					continue
				}
				name := key
				if ja.Name != "" {
					name = ja.Name
				}
				path := name
				if ja.Path != "" {
					path = ja.Path
				}
				region, err := loader.NewRegionAttachment(skin, name, path)
				if err != nil {
					return fmt.Errorf("skeleton: skin %q slot %q: %w", skinName, slotName, err)
				}
				region.X = ja.X * scale
				region.Y = ja.Y * scale
				region.Rotation = ja.Rotation
				region.ScaleX = ja.ScaleX
				region.ScaleY = ja.ScaleY
				region.Width = ja.Width * scale
				region.Height = ja.Height * scale
				region.Color = White
				if ja.Color != "" {
					c, err := ParseHexColor(ja.Color)
					if err != nil {
						return fmt.Errorf("skeleton: attachment %q: %w", key, err)
					}
					region.Color = c
				}
				region.UpdateOffset()
				skin.AddAttachment(slot.Index, key, region)
			}
		}
		if skinName == "default" {
			sd.DefaultSkin = skin
		}
		sd.Skins = append(sd.Skins, skin)
	}
	return nil
}

func readCurve(raw json.RawMessage) (Curve, error) {
	if len(raw) == 0 {
		return LinearCurve(), nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "stepped" {
			return SteppedCurve(), nil
		}
		if c, ok := NamedCurve(name); ok {
			return c, nil
		}
		return Curve{}, fmt.Errorf("unknown curve %q", name)
	}
	var pts []float64
	if err := json.Unmarshal(raw, &pts); err != nil || len(pts) != 4 {
		return Curve{}, fmt.Errorf("curve must be a name or 4 numbers, got %s", raw)
	}
	return BezierCurve(pts[0], pts[1], pts[2], pts[3]), nil
}

func readKeyframes(keys []jsonKey) (keyframes, error) {
	k := keyframes{Times: make([]float64, len(keys)), Curves: make([]Curve, len(keys))}
	for i, key := range keys {
		if i > 0 && key.Time < keys[i-1].Time {
			return k, fmt.Errorf("keyframe times must not decrease (%v after %v)", key.Time, keys[i-1].Time)
		}
		k.Times[i] = key.Time
		c, err := readCurve(key.Curve)
		if err != nil {
			return k, err
		}
		k.Curves[i] = c
	}
	return k, nil
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func readAnimation(sd *SkeletonData, name string, ja jsonAnimation, scale float64) (*Animation, error) {
	var timelines []Timeline

	for boneName, tls := range ja.Bones {
		bone := sd.FindBone(boneName)
		if bone == nil {
			return nil, fmt.Errorf("skeleton: animation %q: bone %q not found", name, boneName)
		}
		for kind, keys := range tls {
			if len(keys) == 0 {
				continue
			}
			kf, err := readKeyframes(keys)
			if err != nil {
				return nil, fmt.Errorf("skeleton: animation %q bone %q %s: %w", name, boneName, kind, err)
			}
			switch kind {
			case "rotate":
				t := &RotateTimeline{keyframes: kf, BoneIndex: bone.Index, Angles: make([]float64, len(keys))}
				for i, key := range keys {
					t.Angles[i] = key.Angle
				}
				timelines = append(timelines, t)
			case "translate", "scale", "shear":
				def, mul := 0.0, 1.0
				switch kind {
				case "translate":
					mul = scale
				case "scale":
					def = 1
				}
				tt := TranslateTimeline{keyframes: kf, BoneIndex: bone.Index, Values: make([][2]float64, len(keys))}
				for i, key := range keys {
					tt.Values[i] = [2]float64{orDefault(key.X, def) * mul, orDefault(key.Y, def) * mul}
				}
				switch kind {
				case "translate":
					timelines = append(timelines, &tt)
				case "scale":
					timelines = append(timelines, &ScaleTimeline{tt})
				default:
					timelines = append(timelines, &ShearTimeline{tt})
				}
			default:
				return nil, fmt.Errorf("skeleton: animation %q bone %q: unknown timeline %q", name, boneName, kind)
			}
		}
	}

	for slotName, tls := range ja.Slots {
		slot := sd.FindSlot(slotName)
		if slot == nil {
			return nil, fmt.Errorf("skeleton: animation %q: slot %q not found", name, slotName)
		}
		for kind, keys := range tls {
			if len(keys) == 0 {
				continue
			}
			switch kind {
			case "color":
				kf, err := readKeyframes(keys)
				if err != nil {
					return nil, fmt.Errorf("skeleton: animation %q slot %q color: %w", name, slotName, err)
				}
				t := &ColorTimeline{keyframes: kf, SlotIndex: slot.Index, Colors: make([]Color, len(keys))}
				for i, key := range keys {
					c, err := ParseHexColor(key.Color)
					if err != nil {
						return nil, fmt.Errorf("skeleton: animation %q slot %q: %w", name, slotName, err)
					}
					t.Colors[i] = c
				}
				timelines = append(timelines, t)
			case "attachment":
				t := &AttachmentTimeline{SlotIndex: slot.Index, Times: make([]float64, len(keys)), Names: make([]string, len(keys))}
				for i, key := range keys {
					t.Times[i] = key.Time
					if key.Name != nil {
						t.Names[i] = *key.Name
					}
				}
				timelines = append(timelines, t)
			default:
				return nil, fmt.Errorf("skeleton: animation %q slot %q: unknown timeline %q", name, slotName, kind)
			}
		}
	}

	return NewAnimation(name, timelines), nil
}
