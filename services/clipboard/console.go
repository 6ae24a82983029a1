package clipsvc

import (
	"log"
	"sync"

	"github.com/trezcool/tutorsync/core"
)

var (
	CopiedTexts = make([]string, 0)
	mu          sync.Mutex
)

type consoleClipboard struct {
	disableOutput bool
}

var _ core.Clipboard = (*consoleClipboard)(nil)

func NewConsoleClipboard() core.Clipboard {
	return &consoleClipboard{}
}

func (c consoleClipboard) Copy(text string) error {
	mu.Lock()
	CopiedTexts = append(CopiedTexts, text)
	mu.Unlock()
	if !c.disableOutput {
		log.Println("clipboard:\n" + text)
	}
	return nil
}

type consoleClipboardMock struct {
	consoleClipboard
}

func NewConsoleClipboardMock() core.Clipboard {
	return &consoleClipboardMock{consoleClipboard{disableOutput: true}}
}
