// Command gotmux hosts a shell inside a pseudo-terminal and renders its
// output through the terminal core in package term, wiring together the
// host-terminal, pty-process, and screen-manager collaborators spec.md
// §6 describes as external to the core.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	xterm "golang.org/x/term"

	"github.com/arthaud/gotmux/hostterm"
	"github.com/arthaud/gotmux/ptyproc"
	"github.com/arthaud/gotmux/screen"
)

func unixNow() int64 { return time.Now().Unix() }

// preInitSize reads the controlling terminal's size the same way the
// teacher's examples/capture_tui does, before the host-terminal
// collaborator (tcell) takes over stdin: the child's PTY needs a size to
// start with, and tcell's own Size() isn't available until after Init.
func preInitSize() (height, width int) {
	w, h, err := xterm.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return 24, 80
	}
	return h, w
}

func main() {
	shell := flag.String("shell", "", "shell to run (defaults to $SHELL, then /bin/sh)")
	history := flag.Int("history", 2000, "scrollback history cap, in lines")
	recordPath := flag.String("record", "", "path to write a session recording log (optional)")
	flag.Parse()

	preH, preW := preInitSize()
	child, err := ptyproc.Start(*shell, preH, preW)
	if err != nil {
		log.Fatalf("gotmux: start shell: %v", err)
	}
	defer child.Close()

	host, err := hostterm.NewTcellTerminal()
	if err != nil {
		log.Fatalf("gotmux: init host terminal: %v", err)
	}
	defer host.Close()

	if h, w := host.Size(); h != preH || w != preW {
		_ = child.Resize(h, w)
	}

	mgr := screen.NewManager(host, child, *history)

	if *recordPath != "" {
		f, err := os.Create(*recordPath)
		if err != nil {
			log.Fatalf("gotmux: open record file: %v", err)
		}
		defer f.Close()
		mgr.SetRecorder(screen.NewLineRecorder(f, unixNow))
	}

	if err := mgr.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gotmux: %v\n", err)
		os.Exit(1)
	}
}
