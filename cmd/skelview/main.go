// Command skelview shows the skeleton widgets declared in a page manifest.
//
//	skelview -page demo/page.yaml
//
// Keys act on the widget under the cursor, or on every widget when the
// cursor is outside them: Space pauses and resumes, N switches to the next
// animation. P saves a screenshot and F toggles the FPS readout. Edited
// asset files are reloaded while the viewer runs.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/skelwidget"
	"github.com/phanxgames/skelwidget/assets"
	"github.com/phanxgames/skelwidget/discovery"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

func main() {
	pagePath := flag.String("page", "page.yaml", "page manifest")
	assetDir := flag.String("assets", "", "asset directory (defaults to the manifest's directory)")
	debug := flag.Bool("debug", false, "log per-frame stats")
	showFPS := flag.Bool("fps", false, "show the FPS readout")
	script := flag.String("script", "", "JSON test script to run")
	watch := flag.Bool("watch", true, "reload widgets when their files change")
	flag.Parse()

	page, err := discovery.LoadPage(*pagePath)
	if err != nil {
		log.Fatal(err)
	}
	if *assetDir == "" {
		*assetDir = filepath.Dir(*pagePath)
	}

	width, height := page.Width, page.Height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	host := skelwidget.NewHost(width, height, skelwidget.Options{
		Source: assets.Dir(*assetDir),
		Debug:  *debug,
	})
	host.ShowFPS = *showFPS

	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatalf("skelview: read script: %v", err)
		}
		runner, err := skelwidget.LoadTestScript(data)
		if err != nil {
			log.Fatal(err)
		}
		host.SetTestRunner(runner)
	}

	v := newViewer(host, page, *pagePath, *assetDir, openPrefs("skelview"))
	v.load()

	if *watch {
		w, err := newWatcher(watchDirs(page, *pagePath, *assetDir)...)
		if err != nil {
			log.Printf("skelview: hot reload disabled: %v", err)
		} else {
			v.watch = w
			defer w.Close()
		}
	}

	title := page.Title
	if title == "" {
		title = "skelview"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(v)
	host.Dispose()
	if err != nil {
		log.Fatal(err)
	}
}
