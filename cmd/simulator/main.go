package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sihas-gateway/internal/devicesim"
	"sihas-gateway/internal/profile"
)

func main() {
	var listen string
	var model string
	var jitter bool
	flag.StringVar(&listen, "listen", ":1502", "listen address")
	flag.StringVar(&model, "model", profile.ModelPMM300, "device model to simulate (AQM300 or PMM300)")
	flag.BoolVar(&jitter, "jitter", true, "randomly vary instantaneous registers")
	flag.Parse()

	image, err := devicesim.Image(model)
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	sim := devicesim.New(len(image))
	sim.LoadImage(image)
	if err := sim.Listen(listen); err != nil {
		log.Fatalf("simulator: listen %s: %v", listen, err)
	}
	defer sim.Close()
	log.Printf("simulating %s on %s", model, sim.Addr())

	if jitter {
		go jitterLoop(sim, model)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Printf("received signal: %v, shutting down...", s)
}

// jitterLoop nudges the instantaneous registers every few seconds so the
// gateway sees changing values.
func jitterLoop(sim *devicesim.Simulator, model string) {
	var idx []uint16
	switch model {
	case profile.ModelAQM300:
		idx = []uint16{0, 1, 2, 6}
	case profile.ModelPMM300:
		idx = []uint16{0, 1, 2}
	}
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		for _, i := range idx {
			v, err := sim.Register(i)
			if err != nil {
				continue
			}
			delta := uint16(rand.Intn(5))
			if rand.Intn(2) == 0 && v > delta {
				v -= delta
			} else {
				v += delta
			}
			_ = sim.SetRegister(i, v)
		}
	}
}
