// Package skelwidget embeds an animated skeleton in an [Ebitengine] window.
//
// A widget takes a skeleton JSON file, a libGDX text atlas and an animation
// name, loads them in the background and then draws the skeleton onto its
// own offscreen surface every tick until paused or disposed. Widgets live in
// named containers of a [Host], which implements [ebiten.Game]:
//
//	host := skelwidget.NewHost(640, 480, skelwidget.Options{
//		Source: assets.Dir("testdata"),
//	})
//	host.AddContainer("hero", skelwidget.Rect{Width: 640, Height: 480})
//	w, err := host.NewWidgetByID("hero", skelwidget.RawConfig{
//		JSON:      "hero/hero.json",
//		Atlas:     "hero/hero.atlas",
//		Animation: "walk",
//		OnReady:   func(w *skelwidget.Widget) { log.Println(w.Animations()) },
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	ebiten.RunGame(host)
//
// # Configuration
//
// [Resolve] turns a [RawConfig] into a [WidgetConfig], filling defaults:
// scale 1, skin "default", loop true, a 640x480 surface, the skeleton placed
// at (width/2, 20) and a #555555 background. The texture loaded with the
// atlas is the atlas path with ".atlas" replaced by ".png"; atlas pages are
// looked up under ImagesPath, which defaults to the atlas directory.
//
// # Ticks
//
// Everything runs on the game goroutine. [TickScheduler] queues callbacks
// for the next [Host.Update]; loading polls once per tick, and the render
// loop queues one frame per tick while playing. [Widget.Pause] lets the
// queued frame finish and stops; [Widget.Play] resumes without ever
// starting a second loop.
//
// # Errors
//
// Configuration problems are returned from [Host.NewWidget] as
// [*ConfigError]. Load and parse failures are reported once, through
// OnError when set, and otherwise returned from [Host.Update]. Match them
// with errors.Is against the sentinels such as [ErrAssetLoad] and
// [ErrUnknownAnimation].
//
// Sub-packages provide the pieces: skeleton (pose engine), atlas (atlas
// parser), assets (background loading), render (batching and shaders) and
// discovery (page manifests).
//
// [Ebitengine]: https://ebitengine.org
package skelwidget
