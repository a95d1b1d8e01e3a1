package output

import (
	"fmt"
	"strings"
	"sync"

	"github.com/parget/parget/internal/engine"
	"github.com/parget/parget/internal/utils"
)

const progressWidth = 30

// Console renders progress events for one download as a single updating
// terminal line. It is an event sink for the engine; throttling happens
// upstream, so every received payload is drawn.
type Console struct {
	mu       sync.Mutex
	fileName string
	active   bool
}

func NewConsole(fileName string) *Console {
	if len(fileName) > 25 {
		fileName = "..." + fileName[len(fileName)-22:]
	}
	return &Console{fileName: fileName}
}

// Emit implements engine.EmitFunc.
func (c *Console) Emit(p engine.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	filledWidth := int(p.Percentage / 100 * progressWidth)
	if filledWidth > progressWidth {
		filledWidth = progressWidth
	}
	bar := "[" + strings.Repeat("=", filledWidth)
	if filledWidth < progressWidth {
		bar += ">" + strings.Repeat(" ", progressWidth-filledWidth-1)
	}
	bar += "]"
	line := fmt.Sprintf("%s: %s %.1f%% %s %.2f MB/s", c.fileName, barStyle.Render(bar), p.Percentage, utils.FormatBytes(p.Transferred), p.TransferRate/1024/1024)
	fmt.Printf("\r\033[K%s", line)
}

// Finish closes out the progress line with a terminal status.
func (c *Console) Finish(status string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		fmt.Print("\r\033[K")
	}
	switch status {
	case "completed":
		PrintSuccess(fmt.Sprintf("%s %s", StyleSymbols["pass"], c.fileName))
	case "paused":
		PrintWarning(fmt.Sprintf("%s %s paused", StyleSymbols["pause"], c.fileName))
	default:
		PrintError(fmt.Sprintf("%s %s: %v", StyleSymbols["fail"], c.fileName, err))
	}
}
