// Command tesseract runs a standalone Java Edition 1.19.4 game server core:
// the Handshake/Status/Login state machine, Mojang session authentication,
// area-of-interest chunk replication and player movement, with no gameplay
// rules layered on top.
package main

import (
	"log/slog"
	"net"
	"os"

	"github.com/tesseract-mc/tesseract/server/session"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := readConfig("tesseract.toml")
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		log.Error("init server", "err", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", cfg.Listen.Address)
	if err != nil {
		log.Error("listen", "addr", cfg.Listen.Address, "err", err)
		os.Exit(1)
	}
	defer listener.Close()

	log.Info("listening", "addr", cfg.Listen.Address, "protocol", protocolVersion)

	go srv.tick()

	for {
		raw, err := listener.Accept()
		if err != nil {
			log.Error("accept", "err", err)
			return
		}
		if tcpConn, ok := raw.(*net.TCPConn); ok {
			tcpConn.SetNoDelay(true)
		}
		go srv.handleConn(session.NewConn(raw))
	}
}
