package main

import (
	"flag"
	"fmt"
	"os"

	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/internal/version"
	"bennypowers.dev/cssom/lsp"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("cssom-language-server"))
		return
	}

	server, err := lsp.NewServer()
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		os.Exit(1)
	}

	// stdio transport, as editors launch it
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}
