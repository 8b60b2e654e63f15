package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	ForkEmoji    = "🍴"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
)

// ErrOut receives progress and diagnostics so that stdout only carries the report.
var ErrOut io.Writer = os.Stderr

var activeSpinner *SmartSpinner

// SmartSpinner is a spinner with enhanced capabilities
type SmartSpinner struct {
	spinner *spinner.Spinner
}

// NewSmartSpinner creates a spinner writing to ErrOut.
func NewSmartSpinner(initialMessage string) *SmartSpinner {
	output := spinner.WithWriter(ErrOut)
	if f, ok := ErrOut.(*os.File); ok {
		// The terminal check runs against this file.
		output = spinner.WithWriterFile(f)
	}
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		output,
		spinner.WithSuffix(" "+ForkEmoji+" "+initialMessage),
	)
	return &SmartSpinner{spinner: s}
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
}

// StopActiveSpinner stops the spinner left running, if any. Used before
// printing a fatal error.
func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + ForkEmoji + " " + msg
	s.spinner.Unlock()
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError handles an application error and displays it in a friendly way.
// If translations is nil, it will use English defaults.
func HandleAppError(err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}
	StopActiveSpinner()

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(ErrOut, err.Error())
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	suggestionColor := color.New(color.FgCyan)

	_, _ = fmt.Fprintln(ErrOut)
	_, _ = errorColor.Fprintf(ErrOut, "❌ %s: %s\n", appErr.Type, appErr.Message)

	if appErr.Err != nil {
		_, _ = Dim.Fprintf(ErrOut, "   Details: %v\n", appErr.Err)
	}
	if status, ok := appErr.Context["status"].(string); ok && status != "" {
		_, _ = Dim.Fprintf(ErrOut, "   Status: %s\n", status)
	}

	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintln(ErrOut)
		tryPrefix := "💡 Try: "
		if t != nil {
			tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
		}
		_, _ = suggestionColor.Fprint(ErrOut, tryPrefix)
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(ErrOut, line)
			} else {
				_, _ = fmt.Fprintf(ErrOut, "       %s\n", line)
			}
		}
	}
	_, _ = fmt.Fprintln(ErrOut)
}
