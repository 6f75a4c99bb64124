// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ConfirmDestructive gates a destructive action behind an explicit
// confirmation. onConfirm runs only if the user accepts.
func ConfirmDestructive(title, message string, window fyne.Window, onConfirm func()) {
	dialog.ShowConfirm(title, message, func(ok bool) {
		if ok {
			onConfirm()
		}
	}, window)
}

// ConfirmImport asks the user to confirm merging count imported layouts.
func ConfirmImport(count int, window fyne.Window, onConfirm func()) {
	msg := fmt.Sprintf("Add %d imported layout(s) to your saved layouts?", count)
	ConfirmDestructive("Import Layouts", msg, window, onConfirm)
}

// PromptLayoutName asks for a layout name before saving. An empty entry
// saves with an auto-assigned name.
func PromptLayoutName(window fyne.Window, onSave func(name string)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Leave empty for automatic name")

	form := []*widget.FormItem{
		widget.NewFormItem("Name", entry),
	}
	dialog.ShowForm("Save Layout", "Save", "Cancel", form, func(ok bool) {
		if ok {
			onSave(entry.Text)
		}
	}, window)
}

// ShowError reports a failed operation without touching state.
func ShowError(err error, window fyne.Window) {
	if err != nil {
		dialog.ShowError(err, window)
	}
}
