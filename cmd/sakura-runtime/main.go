// sakura-runtime is a minimal host process: it boots a Runtime with an
// empty Garden and blocks until interrupted, the way a host embedding
// this module would wire it into its own service bootstrap.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/pkg/sakura"
)

func main() {
	rt, err := sakura.New()
	if err != nil {
		log.Fatalf("failed to initialize sakura runtime: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt.Start(ctx)
	defer rt.Stop()

	rt.Log.Info().
		Int("garden_trees", rt.Stats().Trees).
		Msg("sakura runtime started")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	rt.Log.Info().Str("signal", sig.String()).Msg("sakura runtime shutdown initiated")
}
