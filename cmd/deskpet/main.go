package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "show":
		os.Exit(runSimple("show", "Show the pet.", os.Args[2:], controlClient().Show))
	case "hide":
		os.Exit(runSimple("hide", "Hide the pet. The daemon keeps running.", os.Args[2:], controlClient().Hide))
	case "toggle":
		os.Exit(runSimple("toggle", "Toggle the pet's visibility.", os.Args[2:], controlClient().Toggle))
	case "reload":
		os.Exit(runSimple("reload", "Ask the daemon to re-read its configuration.", os.Args[2:], controlClient().Reload))
	case "quit":
		os.Exit(runSimple("quit", "Stop the daemon and its renderer.", os.Args[2:], controlClient().Quit))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "quadrant":
		os.Exit(runQuadrant(os.Args[2:]))
	case "click-through":
		os.Exit(runClickThrough(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "sysinfo":
		os.Exit(runSysinfo(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskpet <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the pet and its renderer (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  show                Show the pet")
	fmt.Fprintln(w, "  hide                Hide the pet")
	fmt.Fprintln(w, "  toggle              Toggle the pet's visibility")
	fmt.Fprintln(w, "  click-through on|off")
	fmt.Fprintln(w, "                      Let clicks pass through the whole pet window")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  quadrant            Show the screen quadrant the pet occupies")
	fmt.Fprintln(w, "  watch               Interactive status dashboard")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "  quit                Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  sysinfo             Print the system description sent to the renderer")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskpet <command> --help' for command-specific options.")
}
