package cmd

import (
	"github.com/go-drift/sceneloop/pkg/animation"
	"github.com/go-drift/sceneloop/pkg/coroutine"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/native"
	"github.com/go-drift/sceneloop/pkg/native/memory"
	"github.com/go-drift/sceneloop/pkg/reactive"
	"github.com/go-drift/sceneloop/pkg/scene"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

// Demo timing in milliseconds of frame time, distances in pixels.
const (
	spriteStagger = 100
	spriteTween   = 300
	spriteTravel  = 200
	boardDrop     = 40.0
	boardSettle   = 400
	scoreEvery    = 10 // frames
)

// demoScene is a small scene: a board of sprites that fade and slide in
// one after another, and a HUD layer whose score text counts up.
type demoScene struct {
	app     *scene.Node
	score   *reactive.Signal[int]
	dispose func()
}

func buildDemoScene(s *scheduler.Scheduler, tree *scene.Tree, title string, sprites int) *demoScene {
	rt := s.Runtime()
	d := &demoScene{score: reactive.NewSignal(rt, 0)}

	rt.Root(func(dispose func()) {
		d.dispose = dispose
		d.app = tree.NewApplication()

		board := tree.NewContainer()
		board.AddChild(tree.NewRawText(title))
		d.app.AddChild(board)
		coroutine.Start(s, coroutine.Animate(animation.NumberTween(-boardDrop, 0, animation.BackOut), boardSettle, func(y float64) {
			board.SetProp("y", y, nil)
		}))

		hud := tree.NewLayer()
		label := tree.NewText()
		label.AddChild(tree.NewRawText("score: "))
		value := tree.NewRawText(0)
		label.AddChild(value)
		hud.AddChild(label)
		d.app.AddChild(hud)

		scheduler.SynchronizedEffect(s, d.score.Get, func(v int, _ frameclock.Snapshot) {
			value.SetValue(v)
		})

		for i := range sprites {
			sprite := tree.NewLeaf(native.KindSprite)
			sprite.SetProp("alpha", 0.0, nil)
			board.AddChild(sprite)
			coroutine.Start(s, coroutine.Chain(
				coroutine.Delay(float64(i*spriteStagger)),
				coroutine.Tween(func(blend coroutine.Blend) {
					sprite.SetProp("x", blend(0, spriteTravel), nil)
					sprite.SetProp("alpha", blend(0, 1), nil)
				}, animation.EaseInOut, spriteTween),
			))
		}

		coroutine.Start(s, coroutine.Repeat(coroutine.Chain(
			coroutine.Frames(scoreEvery),
			coroutine.Do(func() {
				d.score.Update(func(v int) int { return v + 1 })
			}),
		)))
	})
	return d
}

// finish captures the native graph as YAML and tears the scene down.
func (d *demoScene) finish() ([]byte, error) {
	stage := d.app.Native().(*memory.Object)
	out, err := stage.Snapshot().YAML()
	d.dispose()
	return out, err
}
