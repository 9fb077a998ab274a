// tbdsrv is a line-oriented interactive server over an in-memory tbd
// store. It is a text-protocol collaborator that talks to the core
// purely through the public API and reports the numeric status code
// the core returns.
//
// Usage:
//
//	tbdsrv [--buffer-size N] [--hunk-granule N] [--dump path] [--config path]
//
// Commands (in REPL):
//
//	create <key> <value>           Insert a new entry
//	read <key>                     Read an entry's value
//	update <key> <value>           Overwrite an entry's value (same size)
//	delete <key>                   Delete an entry
//	ls                             List all live keys
//	sort key|heap                  Reorder the slot stack
//	gc pop|fold|pack|merge|collect|clean [budget]   Run a GC stage
//	stats                          Show header/usage statistics
//	dump                           Snapshot the store to the configured dump file
//	config                         Show the effective configuration
//	help                           Show this help
//	exit / quit / q                Exit
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/tbdkv/tbd/pkg/tbd"
)

var tbdHeaderSize = tbd.HeaderSize()

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		bufferSize  int
		hunkGranule uint32
		dumpPath    string
		configPath  string
	)

	pflag.IntVar(&bufferSize, "buffer-size", 0, "buffer size in bytes (overrides config)")
	pflag.Uint32Var(&hunkGranule, "hunk-granule", 0, "hunk size quantum in bytes (overrides config)")
	pflag.StringVar(&dumpPath, "dump", "", "path the dump command writes to (overrides config)")
	pflag.StringVar(&configPath, "config", "", "explicit config file path")
	pflag.Parse()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, _, err := LoadConfig(workDir, configPath, os.Environ())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if bufferSize != 0 {
		cfg.BufferSize = bufferSize
	}

	if hunkGranule != 0 {
		cfg.HunkGranule = hunkGranule
	}

	if dumpPath != "" {
		cfg.DumpPath = dumpPath
	}

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	buf := make([]byte, cfg.BufferSize)

	store, err := tbd.Init(buf, cfg.HunkGranule)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	repl := &REPL{store: store, cfg: cfg}

	return repl.Run()
}

// REPL is the interactive command loop over a single in-memory store.
type REPL struct {
	store *tbd.Store
	cfg   Config
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".tbdsrv_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("tbdsrv - tbd CLI (buffer_size=%d, hunk_granule=%d)\n", r.cfg.BufferSize, r.cfg.HunkGranule)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("tbd> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "create":
			r.cmdCreate(args)

		case "read", "get":
			r.cmdRead(args)

		case "update", "set":
			r.cmdUpdate(args)

		case "delete", "del":
			r.cmdDelete(args)

		case "ls", "keys":
			r.cmdLs(args)

		case "sort":
			r.cmdSort(args)

		case "gc":
			r.cmdGC(args)

		case "stats", "info":
			r.cmdStats()

		case "dump":
			r.cmdDump()

		case "config":
			r.cmdConfig()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"create", "read", "get", "update", "set", "delete", "del",
		"ls", "keys", "sort", "gc", "stats", "info", "dump", "config",
		"clear", "cls", "help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  create <key> <value>          Insert a new entry")
	fmt.Println("  read <key>                    Read an entry's value")
	fmt.Println("  update <key> <value>          Overwrite a value (same size)")
	fmt.Println("  delete <key>                  Delete an entry")
	fmt.Println("  ls                            List all live keys")
	fmt.Println("  sort key|heap                 Reorder the slot stack")
	fmt.Println("  gc pop|fold|pack|merge|collect|clean [budget]   Run a GC stage")
	fmt.Println("  stats                         Show header/usage statistics")
	fmt.Println("  dump                          Snapshot the store to the dump file")
	fmt.Println("  config                        Show the effective configuration")
	fmt.Println("  help                          Show this help")
	fmt.Println("  exit / quit / q               Exit")
	fmt.Println()
	fmt.Println("Values: hex (e.g., 'deadbeef') or plain text.")
}

// parseBytes decodes a command argument as hex if possible, falling
// back to its literal bytes.
func parseBytes(s string) []byte {
	if raw, err := hex.DecodeString(s); err == nil && len(s)%2 == 0 && len(s) > 0 {
		return raw
	}

	return []byte(s)
}

func reportStatus(op string, err error) {
	status := tbd.StatusOf(err)
	if status == tbd.Ok {
		fmt.Printf("%s: OK\n", op)

		return
	}

	fmt.Printf("%s: status=%d (%v)\n", op, status, err)
}

func (r *REPL) cmdCreate(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: create <key> <value>")

		return
	}

	err := r.store.Create(parseBytes(args[0]), parseBytes(args[1]))
	reportStatus("create", err)
}

func (r *REPL) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: read <key>")

		return
	}

	key := parseBytes(args[0])

	size := r.store.ReadSize(key)
	if size == 0 {
		reportStatus("read", tbd.ErrKeyNotFound)

		return
	}

	out := make([]byte, size)
	if err := r.store.Read(key, out); err != nil {
		reportStatus("read", err)

		return
	}

	fmt.Printf("read: %q (hex=%s)\n", string(out), hex.EncodeToString(out))
}

func (r *REPL) cmdUpdate(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: update <key> <value>")

		return
	}

	err := r.store.Update(parseBytes(args[0]), parseBytes(args[1]))
	reportStatus("update", err)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: delete <key>")

		return
	}

	err := r.store.Delete(parseBytes(args[0]))
	reportStatus("delete", err)
}

func (r *REPL) cmdLs(args []string) {
	buf := make([]byte, 1<<16)

	n := r.store.KeysToText(buf, tbd.TextFormat{Key: tbd.KeyQuoted})
	if n == 0 {
		fmt.Println("(empty)")

		return
	}

	fmt.Print(string(buf[:n]))
}

func (r *REPL) cmdSort(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: sort key|heap")

		return
	}

	switch args[0] {
	case "key":
		r.store.SortByKey()
		fmt.Println("sort key: OK")
	case "heap":
		r.store.SortByHeap()
		fmt.Println("sort heap: OK")
	default:
		fmt.Println("Usage: sort key|heap")
	}
}

func (r *REPL) cmdGC(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gc pop|fold|pack|merge|collect|clean [budget]")

		return
	}

	budget := uint64(r.store.Size())

	if len(args) >= 2 {
		parsed, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Printf("Error parsing budget: %v\n", err)

			return
		}

		budget = parsed
	}

	var n uint64

	switch args[0] {
	case "pop":
		n = r.store.GarbagePop(budget)
	case "fold":
		n = r.store.GarbageFold(budget)
	case "pack":
		n = r.store.GarbagePack(budget)
	case "merge":
		n = r.store.GarbageMerge()
	case "collect":
		n = r.store.GarbageCollect(budget)
	case "clean":
		n = r.store.GarbageClean()
	default:
		fmt.Println("Usage: gc pop|fold|pack|merge|collect|clean [budget]")

		return
	}

	fmt.Printf("gc %s: %d bytes reclaimed/moved (garbage_size=%d)\n", args[0], n, r.store.GarbageSize())
}

func (r *REPL) cmdStats() {
	stats := tbd.GatherStats(r.store)

	fmt.Printf("total_size:       %d\n", stats.TotalSize)
	fmt.Printf("header_size:      %d\n", stats.HeaderSize)
	fmt.Printf("slot_record_size: %d\n", stats.SlotRecordSize)
	fmt.Printf("hunk_granule:     %d\n", stats.HunkGranule)
	fmt.Printf("max_key_length:   %d\n", stats.MaxKeyLength)
	fmt.Printf("slot_count:       %d\n", stats.SlotCount)
	fmt.Printf("heap_top:         %d\n", stats.HeapTop)
	fmt.Printf("heap_size:        %d\n", stats.HeapSize)
	fmt.Printf("size_used:        %d\n", stats.SizeUsed)
	fmt.Printf("garbage_size:     %d\n", stats.GarbageSize)
	fmt.Printf("garbage_count:    %d\n", stats.GarbageCount)
}

func (r *REPL) cmdDump() {
	buf := make([]byte, 1<<20)

	n := r.store.ToText(buf, tbd.TextFormat{Key: tbd.KeyQuoted, Value: tbd.ValueHex})

	if err := atomic.WriteFile(r.cfg.DumpPath, strings.NewReader(string(buf[:n]))); err != nil {
		fmt.Printf("dump: error: %v\n", err)

		return
	}

	fmt.Printf("dump: wrote %s (%d bytes)\n", r.cfg.DumpPath, n)
}

func (r *REPL) cmdConfig() {
	text, err := FormatConfig(r.cfg)
	if err != nil {
		fmt.Printf("config: error: %v\n", err)

		return
	}

	fmt.Println(text)
}
