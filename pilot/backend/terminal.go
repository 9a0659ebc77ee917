package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/aruzzi/gbpilot/pilot/emu"
)

// Terminal renders frames in the terminal using half-block cells, two pixel
// rows per text row. View-only: the agent owns the joypad, q/Escape quits.
type Terminal struct {
	config Config
	screen tcell.Screen
}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Init(config Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t.screen = screen
	return nil
}

func (t *Terminal) Update(frame *emu.Frame, status Status) error {
	// Poll pending events synchronously; the loop drives the cadence.
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if t.isQuitKey(ev) && t.config.OnQuit != nil {
				t.config.OnQuit()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.drawStatus(status)
	t.drawFrame(frame)
	t.screen.Show()
	return nil
}

func (t *Terminal) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Terminal) isQuitKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == 'q'
}

func (t *Terminal) drawStatus(status Status) {
	line := fmt.Sprintf("%s | step %d | last: %s | q to quit", t.config.Title, status.Step, status.LastAction)
	if status.Reasoning != "" {
		line += " | " + status.Reasoning
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	width, _ := t.screen.Size()
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, 0, ' ', nil, style)
	}
	for x, r := range line {
		if x >= width {
			break
		}
		t.screen.SetContent(x, 0, r, nil, style)
	}
}

// drawFrame draws two pixel rows per terminal row with the upper half block
// character: foreground is the top pixel, background the bottom one.
func (t *Terminal) drawFrame(frame *emu.Frame) {
	const yOffset = 1 // status line

	for y := 0; y+1 < frame.Height; y += 2 {
		for x := 0; x < frame.Width; x++ {
			top := pixelColor(frame.Pixels[y*frame.Width+x])
			bottom := pixelColor(frame.Pixels[(y+1)*frame.Width+x])
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, yOffset+y/2, '▀', nil, style)
		}
	}
}

func pixelColor(px uint32) tcell.Color {
	r := int32((px >> 24) & 0xFF)
	g := int32((px >> 16) & 0xFF)
	b := int32((px >> 8) & 0xFF)
	return tcell.NewRGBColor(r, g, b)
}
