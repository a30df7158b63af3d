// Profiling:
// go build ./profile/run
// go tool pprof -http=":8000" -nodefraction=0.001 ./run cpu.prof

package main

import (
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/edwinsyarief/lazytween"
)

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 20
	iters := 10000
	tweens := 100000
	run(count, iters, tweens)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC() // Trigger garbage collection
	_ = pprof.WriteHeapProfile(memFile)
}

// run drives a large population of looping tweens and sequences, which
// never complete, so the profile is dominated by the pipeline itself.
func run(rounds, iters, numTweens int) {
	st := lazytween.DefaultSettings()
	st.InitialCapacity = numTweens * 2
	st.DefaultEase = "inOutQuad"
	for range rounds {
		s, err := lazytween.New(lazytween.WithSettings(st), lazytween.WithLogger(log.New(io.Discard, "", 0)))
		if err != nil {
			log.Fatal(err)
		}
		values := make([]float32, numTweens)
		for i := range numTweens / 2 {
			v := &values[i]
			s.Float(0, 1, 1, func(x float32) { *v = x }).LoopForever().PingPong()
		}
		for i := numTweens / 2; i < numTweens; i += 2 {
			a, b := &values[i], &values[i+1]
			seq := s.NewSequence()
			_, _ = seq.Append(s.Float(0, 1, 0.5, func(x float32) { *a = x }))
			_, _ = seq.Join(s.Float(1, 0, 0.5, func(x float32) { *b = x }))
			_, _ = seq.AppendInterval(0.25)
			seq.LoopForever()
		}
		for range iters {
			_ = s.Run(lazytween.GroupUpdate, 1.0/60)
		}
		_ = s.Destroy()
	}
}
