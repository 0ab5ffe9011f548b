package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is a single-screen full-screen debugger view: registers, a
// memory hex dump, and a command input line, wired to one Debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	MemoryAddress uint32
}

// NewTUI builds the layout and key bindings for d.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{Debugger: d, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("(rv32i) ")
	t.CommandInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := strings.TrimSpace(t.CommandInput.GetText())
		t.CommandInput.SetText("")
		if line == "" {
			return
		}
		t.runCommand(line)
	})
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		AddItem(t.RegisterView, 0, 1, false).
		AddItem(t.MemoryView, 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.OutputView, 0, 2, false).
		AddItem(t.CommandInput, 1, 0, true)
	t.App.SetRoot(root, true).SetFocus(t.CommandInput)
}

// runCommand executes one REPL-style command and redraws every panel.
func (t *TUI) runCommand(line string) {
	fields := strings.Fields(line)
	repl := NewREPL(t.Debugger, strings.NewReader(""), t.OutputView)
	quit, err := repl.Dispatch(fields[0], fields[1:])
	if err != nil {
		fmt.Fprintln(t.OutputView, "error:", err)
	}
	if quit {
		t.App.Stop()
		return
	}
	t.Refresh()
}

// Refresh redraws the register and memory panels from current VM state.
func (t *TUI) Refresh() {
	snapshot := t.Debugger.VM.Regs.Snapshot()
	var regs strings.Builder
	for i := 0; i < 32; i += 2 {
		fmt.Fprintf(&regs, "x%-2d=0x%08x  x%-2d=0x%08x\n", i, snapshot[i], i+1, snapshot[i+1])
	}
	fmt.Fprintf(&regs, "\npc=0x%08x halted=%v\n", t.Debugger.VM.PC, t.Debugger.VM.Halted)
	t.RegisterView.SetText(regs.String())

	var mem strings.Builder
	for i := 0; i < 16; i++ {
		addr := t.MemoryAddress + uint32(i*4)
		v, err := t.Debugger.VM.Memory.ReadWord(addr)
		if err != nil {
			break
		}
		fmt.Fprintf(&mem, "0x%08x: 0x%08x\n", addr, v)
	}
	t.MemoryView.SetText(mem.String())
}

// Run starts the full-screen event loop, blocking until the user quits.
func (t *TUI) Run() error {
	t.Refresh()
	return t.App.Run()
}
