// Profiling:
// go build ./profile/spawn
// go tool pprof -http=":8000" -nodefraction=0.001 ./spawn mem.pprof

package main

import (
	"io"
	"log"

	"github.com/edwinsyarief/lazytween"
	"github.com/edwinsyarief/lazytween/vmath"
	"github.com/pkg/profile"
)

type sprite struct {
	Pos   vmath.Vec2
	Alpha float32
}

func main() {
	count := 50
	iters := 1000
	tweens := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, tweens)
	p.Stop()
}

// run creates short tweens and lets every one of them complete, so each
// iteration exercises creation, the full pipeline and destruction.
func run(rounds, iters, numTweens int) {
	st := lazytween.DefaultSettings()
	st.InitialCapacity = numTweens
	st.WarnStaleHandles = false
	for range rounds {
		s, err := lazytween.New(lazytween.WithSettings(st), lazytween.WithLogger(log.New(io.Discard, "", 0)))
		if err != nil {
			log.Fatal(err)
		}
		sprites := make([]sprite, numTweens)
		for range iters {
			for i := range sprites {
				sp := &sprites[i]
				s.Vec2(vmath.Vec2{}, vmath.Vec2{X: 10, Y: 5}, 0.1, func(v vmath.Vec2) { sp.Pos = v })
				s.Float(0, 1, 0.1, func(v float32) { sp.Alpha = v }).OnComplete(func(lazytween.Tween) {})
			}
			_ = s.Run(lazytween.GroupUpdate, 0.05)
			_ = s.Run(lazytween.GroupUpdate, 0.05)
		}
		_ = s.Destroy()
	}
}
