// Package clipsvc copies text to the clipboard, used for billing reminders.
package clipsvc

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/errors"

	"github.com/trezcool/tutorsync/core"
)

type systemClipboard struct{}

var _ core.Clipboard = (*systemClipboard)(nil)

func NewSystemClipboard() core.Clipboard {
	return &systemClipboard{}
}

func (systemClipboard) Copy(text string) error {
	return errors.Wrap(clipboard.WriteAll(text), "writing to system clipboard")
}
