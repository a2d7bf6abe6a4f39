package skelwidget

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/skelwidget/atlas"
	"github.com/phanxgames/skelwidget/skeleton"
)

// pose is the runtime skeleton and its animation state, built once per
// successful load.
type pose struct {
	atlas    *atlas.Atlas
	skeleton *skeleton.Skeleton
	state    *skeleton.AnimationState
}

// buildPose turns loaded asset text and textures into a posed skeleton
// playing cfg.Animation on track 0.
func buildPose(cfg WidgetConfig, am AssetManager) (*pose, error) {
	atlasText, ok := am.Get(cfg.Atlas).(string)
	if !ok {
		return nil, &AssetError{Kind: ErrMalformedAsset, Err: fmt.Errorf("%s is not loaded as text", cfg.Atlas)}
	}
	jsonText, ok := am.Get(cfg.JSON).(string)
	if !ok {
		return nil, &AssetError{Kind: ErrMalformedAsset, Err: fmt.Errorf("%s is not loaded as text", cfg.JSON)}
	}

	a, err := atlas.Parse(atlasText, func(page string) (*ebiten.Image, error) {
		tex, _ := am.Get(cfg.ImagesPath + page).(*ebiten.Image)
		if tex == nil {
			return nil, fmt.Errorf("%w: %s", atlas.ErrMissingTexture, cfg.ImagesPath+page)
		}
		return tex, nil
	})
	if err != nil {
		if errors.Is(err, atlas.ErrMissingTexture) {
			return nil, &AssetError{Kind: ErrUnresolvedImage, Err: err}
		}
		return nil, &AssetError{Kind: ErrMalformedAsset, Err: err}
	}

	data, err := skeleton.ReadJSON([]byte(jsonText), skeleton.AtlasAttachmentLoader{Atlas: a}, cfg.Scale)
	if err != nil {
		return nil, &AssetError{Kind: ErrMalformedAsset, Err: err}
	}

	sk := skeleton.NewSkeleton(data)
	sk.X, sk.Y = cfg.X, cfg.Y
	if err := sk.SetSkinByName(cfg.Skin); err != nil {
		return nil, &AssetError{Kind: ErrUnknownSkin, Err: err}
	}

	state := skeleton.NewAnimationState(data)
	if _, err := state.SetAnimation(0, cfg.Animation, cfg.Loop); err != nil {
		return nil, &AssetError{Kind: ErrUnknownAnimation, Err: err}
	}
	return &pose{atlas: a, skeleton: sk, state: state}, nil
}
