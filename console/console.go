// Package console implements an interactive operator REPL over a World and
// Simulation pair, grounded on the teacher's server/console.Console.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/sim"
	"github.com/vev-sand/grainworld/world"
)

const (
	defaultPromptPrefix = "> "
	maxHistoryEntries   = 128
)

// commands lists every recognized verb, used both for dispatch and for
// tab-completion suggestions.
var commands = []struct {
	name string
	desc string
}{
	{"tick", "<n> — advance the simulation n ticks (default 1)"},
	{"set", "<x> <y> <id> [density] — write a texel"},
	{"get", "<x> <y> — read a texel"},
	{"dump", "<chunkX> <chunkY> — print a chunk's dirty rect"},
	{"chunks", "— list loaded chunk coordinates"},
	{"quit", "— exit the console"},
}

// Console is a REPL bound to one World/Simulation pair. It reads commands
// from an io.Reader (os.Stdin by default) and logs results to log, exactly
// the shape of the teacher's Console: srv/log/reader/history.
type Console struct {
	w       *world.World
	sim     *sim.Simulation
	log     *slog.Logger
	reader  io.Reader
	history []string
}

// New returns a Console bound to w and sim. A nil log falls back to
// slog.Default().
func New(w *world.World, s *sim.Simulation, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{w: w, sim: s, log: log, reader: os.Stdin}
}

// WithReader swaps the input source, letting tests drive the console
// without a real terminal.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run consumes commands until ctx is cancelled or the reader reaches EOF.
// Interactive terminals get the go-prompt-driven line editor with
// completion and history; any other reader falls back to a plain line
// scanner, matching the teacher's Console.Run split.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("Grainworld Console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := strings.ToLower(doc.GetWordBeforeCursor())
	suggestions := make([]prompt.Suggest, 0, len(commands))
	for _, cmd := range commands {
		suggestions = append(suggestions, prompt.Suggest{Text: cmd.name, Description: cmd.desc})
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return prompt.FilterHasPrefix(suggestions, word, true)
}

func (c *Console) execute(line string) {
	c.history = append(c.history, line)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "tick":
		c.cmdTick(fields[1:])
	case "set":
		c.cmdSet(fields[1:])
	case "get":
		c.cmdGet(fields[1:])
	case "dump":
		c.cmdDump(fields[1:])
	case "chunks":
		c.cmdChunks()
	case "quit", "exit":
		os.Exit(0)
	default:
		c.log.Error("unknown console command", "cmd", fields[0])
	}
}

func (c *Console) cmdTick(args []string) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			c.log.Error("tick: bad count", "arg", args[0])
			return
		}
		n = v
	}
	for i := 0; i < n; i++ {
		c.sim.Step()
	}
	c.log.Info("ticked", "count", n, "frame", c.sim.Frame())
}

func (c *Console) cmdSet(args []string) {
	if len(args) < 3 {
		c.log.Error("set: usage: set x y id [density]")
		return
	}
	x, err1 := strconv.Atoi(args[0])
	y, err2 := strconv.Atoi(args[1])
	id, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		c.log.Error("set: bad coordinate or id")
		return
	}
	var density int
	if len(args) > 3 {
		d, err := strconv.Atoi(args[3])
		if err != nil {
			c.log.Error("set: bad density", "arg", args[3])
			return
		}
		density = d
	}
	p := geom.Vector2I{X: int32(x), Y: int32(y)}
	changed := c.w.SetTexel(p, world.Texel{ID: uint8(id), Density: uint8(density)}, nil)
	c.log.Info("set", "pos", fmt.Sprintf("%d,%d", x, y), "id", id, "changed", changed)
}

func (c *Console) cmdGet(args []string) {
	if len(args) < 2 {
		c.log.Error("get: usage: get x y")
		return
	}
	x, err1 := strconv.Atoi(args[0])
	y, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		c.log.Error("get: bad coordinate")
		return
	}
	p := geom.Vector2I{X: int32(x), Y: int32(y)}
	t, ok := c.w.GetTexel(p)
	c.log.Info("get", "pos", fmt.Sprintf("%d,%d", x, y), "texel", t, "present", ok)
}

func (c *Console) cmdDump(args []string) {
	if len(args) < 2 {
		c.log.Error("dump: usage: dump chunkX chunkY")
		return
	}
	x, err1 := strconv.Atoi(args[0])
	y, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		c.log.Error("dump: bad chunk coordinate")
		return
	}
	pos := geom.Vector2I{X: int32(x), Y: int32(y)}
	ch := c.w.Chunk(pos)
	if ch == nil {
		c.log.Info("dump: chunk not loaded", "chunk", fmt.Sprintf("%d,%d", x, y))
		return
	}
	rect, dirty := ch.DirtyRect()
	c.log.Info("dump", "chunk", fmt.Sprintf("%d,%d", x, y), "dirty", dirty, "rect", rect)
}

func (c *Console) cmdChunks() {
	coords := c.w.ChunkCoords()
	c.log.Info("chunks", "count", len(coords))
	for _, p := range coords {
		c.log.Info("chunk", "pos", fmt.Sprintf("%d,%d", p.X, p.Y))
	}
}
