package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/glidetype/internal/app"
	"github.com/ayusman/glidetype/internal/server"
	"github.com/ayusman/glidetype/internal/store"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "path to the trace database (default ~/.glidetype/glidetype.db)")
	layoutsDir := flag.String("layouts", "", "directory of TOML layout files to load and watch")
	flag.Parse()

	fmt.Println("Glidetype - Gesture Keyboard Decoder")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".glidetype")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dataDir, "glidetype.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Store:      st,
		LayoutsDir: *layoutsDir,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	if err := a.Watch(); err != nil {
		log.Printf("Layout watching disabled: %v", err)
	}
	defer a.Stop()

	srv := server.New(server.Config{App: a})

	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
