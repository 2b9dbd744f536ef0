// Package gui is the desktop front end of the converter.
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"ecg-converter/internal/config"
	"ecg-converter/internal/converter"
	"ecg-converter/internal/demographics"
	"ecg-converter/internal/pipeline"
	"ecg-converter/internal/progress"
)

const (
	AppTitle  = "ECG Converter"
	AppWidth  = 600
	AppHeight = 520
)

// App represents the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	wizard     *Wizard
	steps      *StepBuilder

	cfg       *config.Config
	log       zerolog.Logger
	converter *converter.Adapter
	errors    *progress.ErrorLogger

	toolStatusCircle *canvas.Circle
	toolStatusLabel  *widget.Label
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	a := app.NewWithID("ecgconvert")
	a.Settings().SetTheme(&MonitorTheme{})

	return &App{
		fyneApp:   a,
		cfg:       cfg,
		log:       log.With().Str("component", "gui").Logger(),
		converter: converter.New(cfg.Tool, log),
	}
}

// Run starts the GUI application and blocks until the window is closed
func (a *App) Run() {
	errLog, err := progress.NewErrorLogger(a.cfg.ErrorLog)
	if err != nil {
		a.log.Warn().Err(err).Str("path", a.cfg.ErrorLog).Msg("error log unavailable, keeping failures in memory")
		errLog, _ = progress.NewErrorLogger("")
	}
	a.errors = errLog
	defer a.errors.Close()

	p := pipeline.New(a.converter, demographics.New(a.log), a.log).WithErrorLogger(a.errors)

	a.mainWindow = a.fyneApp.NewWindow(AppTitle)
	a.mainWindow.Resize(fyne.NewSize(AppWidth, AppHeight))
	a.mainWindow.CenterOnScreen()

	a.wizard = NewWizard()
	a.wizard.SetStatusIndicator(a.createToolStatusIndicator())

	a.steps = NewStepBuilder(a.mainWindow, a.wizard, p, a.cfg.PipelineConfig())
	a.wizard.SetStepContent(StepFolders, a.steps.BuildFolders())
	a.wizard.SetStepContent(StepOptions, a.steps.BuildOptions())
	a.wizard.SetStepContent(StepConvert, a.steps.BuildConvert())

	a.wizard.SetCanProceed(func(step WizardStep) bool {
		switch step {
		case StepFolders:
			return a.steps.ValidateFolders()
		case StepOptions:
			if !a.converter.ToolAvailable() {
				a.confirmWithoutTool()
				return false
			}
		case StepConvert:
			if !a.steps.IsProcessing() {
				a.mainWindow.Close()
			}
			return false
		}
		return true
	})

	a.wizard.SetOnStepChange(func(step WizardStep) {
		if step == StepConvert {
			a.steps.RunConvert()
		}
	})

	a.mainWindow.SetContent(a.wizard.Build())

	a.mainWindow.SetCloseIntercept(func() {
		if !a.steps.IsProcessing() {
			a.mainWindow.Close()
			return
		}
		dialog.ShowConfirm("Confirm Exit",
			"A conversion is in progress. Closing now leaves the output folder incomplete. Exit anyway?",
			func(confirm bool) {
				if confirm {
					a.mainWindow.Close()
				}
			}, a.mainWindow)
	})

	a.mainWindow.ShowAndRun()
}

// confirmWithoutTool lets the user start a run that will fail every file.
func (a *App) confirmWithoutTool() {
	dialog.ShowConfirm(a.cfg.Tool+" Not Found",
		fmt.Sprintf("%s was not found. Every conversion will fail.\n\nDo you want to continue anyway?", a.cfg.Tool),
		func(confirmed bool) {
			if confirmed {
				a.wizard.GoToStep(StepConvert)
			}
		}, a.mainWindow)
}

// createToolStatusIndicator creates a clickable converter status indicator with a colored circle
func (a *App) createToolStatusIndicator() fyne.CanvasObject {
	a.toolStatusCircle = canvas.NewCircle(ColorStatusRed)
	a.toolStatusLabel = widget.NewLabel("")
	a.updateToolStatus()

	statusBtn := widget.NewButton("", a.showToolDialog)
	statusBtn.Importance = widget.LowImportance

	return container.NewStack(
		statusBtn,
		container.New(&statusLayout{}, a.toolStatusCircle, a.toolStatusLabel),
	)
}

// statusLayout vertically centers a circle with a label
type statusLayout struct{}

const statusCircleSize = float32(10)

func (l *statusLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	labelSize := objects[1].MinSize()
	return fyne.NewSize(statusCircleSize+8+labelSize.Width, labelSize.Height)
}

func (l *statusLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	circle, label := objects[0], objects[1]

	circle.Resize(fyne.NewSize(statusCircleSize, statusCircleSize))
	circle.Move(fyne.NewPos(4, (size.Height-statusCircleSize)/2))

	labelSize := label.MinSize()
	label.Resize(labelSize)
	label.Move(fyne.NewPos(statusCircleSize+12, (size.Height-labelSize.Height)/2))
}

func (a *App) updateToolStatus() {
	if a.converter.ToolAvailable() {
		a.toolStatusCircle.FillColor = ColorStatusGreen
		a.toolStatusLabel.SetText(a.converter.Tool() + ": OK")
	} else {
		a.toolStatusCircle.FillColor = ColorStatusRed
		a.toolStatusLabel.SetText(a.converter.Tool() + ": Missing")
	}
	a.toolStatusCircle.Refresh()
}

// showToolDialog explains where the converter is looked up.
func (a *App) showToolDialog() {
	a.updateToolStatus()

	var status *widget.Label
	if a.converter.ToolAvailable() {
		status = widget.NewLabel(fmt.Sprintf("%s is installed and ready to use.", a.converter.Tool()))
	} else {
		status = widget.NewLabel(fmt.Sprintf(
			"%s was not found.\n\nInstall the converter and make sure it is on your PATH, or point the tool setting at the executable.",
			a.converter.Tool()))
	}
	status.Wrapping = fyne.TextWrapWord

	hint := widget.NewLabel(fmt.Sprintf("%s_TOOL=/path/to/ECGTool  or  tool: /path/to/ECGTool in ecgconvert.yaml", config.EnvPrefix))
	hint.TextStyle = fyne.TextStyle{Monospace: true}
	hint.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustom("Converter Status", "Close", container.NewVBox(
		status,
		widget.NewSeparator(),
		widget.NewLabel("Configure a different executable with:"),
		hint,
	), a.mainWindow)
	d.Resize(fyne.NewSize(420, 240))
	d.Show()
}
