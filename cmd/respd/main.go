// Command respd runs a standalone RESP server backed by an in-memory
// key-value store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hcnet/respd/server"
	"github.com/hcnet/respd/store"
)

func main() {
	address := flag.String("address", server.DefaultAddress, "address to listen on")
	bufferSize := flag.Int("buffer-size", 4096, "initial per-connection read/write buffer size, in bytes")
	readLimit := flag.Int64("read-limit", 0, "maximum bulk/array length accepted per frame, 0 for unlimited")
	flag.Parse()

	if err := run(*address, *bufferSize, *readLimit); err != nil {
		log.Fatal(err)
	}
}

func run(address string, bufferSize int, readLimit int64) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = server.WithTrace(ctx, server.DefaultLoggingHooks)

	opts := []server.Option{server.WithConnBufferSize(bufferSize)}
	if readLimit > 0 {
		opts = append(opts, server.WithConnReadLimit(readLimit))
	}

	kv := store.New()
	srv, err := server.New(ctx, address, kv, opts...)
	if err != nil {
		return err
	}
	log.Printf("respd: listening on %s", srv.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Print("respd: shutting down")
	return srv.Close()
}
