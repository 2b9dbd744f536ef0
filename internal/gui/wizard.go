package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// WizardStep represents a step in the wizard
type WizardStep int

const (
	StepFolders WizardStep = iota
	StepOptions
	StepConvert
)

var stepTitles = []string{"Folders", "Options", "Convert"}

// Wizard manages the wizard flow and UI
type Wizard struct {
	currentStep WizardStep

	stepContents map[WizardStep]fyne.CanvasObject

	backButton *widget.Button
	nextButton *widget.Button

	stepIndicators []*canvas.Circle
	stepLabels     []*canvas.Text

	contentContainer *fyne.Container
	stepIndicator    fyne.CanvasObject

	// shown between the navigation buttons
	statusIndicator fyne.CanvasObject

	onStepChange func(WizardStep)
	canProceed   func(WizardStep) bool
}

// NewWizard creates a new wizard instance
func NewWizard() *Wizard {
	w := &Wizard{
		currentStep:  StepFolders,
		stepContents: make(map[WizardStep]fyne.CanvasObject),
	}

	w.backButton = widget.NewButton("Back", w.Previous)
	w.backButton.Disable()
	w.nextButton = widget.NewButton("Next", w.Next)
	w.nextButton.Importance = widget.HighImportance

	w.createStepIndicator()
	return w
}

func (w *Wizard) createStepIndicator() {
	w.stepIndicators = make([]*canvas.Circle, len(stepTitles))
	w.stepLabels = make([]*canvas.Text, len(stepTitles))

	var items []fyne.CanvasObject
	for i, title := range stepTitles {
		circle := canvas.NewCircle(ColorStepInactive)
		circle.StrokeColor = ColorBorder
		circle.StrokeWidth = 2
		w.stepIndicators[i] = circle

		label := canvas.NewText(title, ColorTextSecondary)
		label.TextSize = 12
		label.Alignment = fyne.TextAlignCenter
		w.stepLabels[i] = label

		items = append(items, container.NewVBox(
			container.NewCenter(container.New(&fixedLayout{size: fyne.NewSize(24, 24)}, circle)),
			container.NewCenter(label),
		))

		if i < len(stepTitles)-1 {
			line := canvas.NewRectangle(ColorBorder)
			items = append(items, container.New(&fixedLayout{size: fyne.NewSize(40, 2), offsetY: 11, minHeight: 24}, line))
		}
	}

	w.stepIndicator = container.NewHBox(items...)
	w.updateStepIndicator()
}

// fixedLayout places every object at a fixed size, shifted down by offsetY.
type fixedLayout struct {
	size      fyne.Size
	offsetY   float32
	minHeight float32
}

func (l *fixedLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	h := l.size.Height
	if l.minHeight > h {
		h = l.minHeight
	}
	return fyne.NewSize(l.size.Width, h)
}

func (l *fixedLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Resize(l.size)
		o.Move(fyne.NewPos(0, l.offsetY))
	}
}

func (w *Wizard) updateStepIndicator() {
	for i := range stepTitles {
		step := WizardStep(i)
		switch {
		case step < w.currentStep:
			w.stepIndicators[i].FillColor = ColorSuccess
			w.stepIndicators[i].StrokeColor = ColorSuccess
			w.stepLabels[i].Color = ColorTextPrimary
		case step == w.currentStep:
			w.stepIndicators[i].FillColor = ColorPrimaryAccent
			w.stepIndicators[i].StrokeColor = ColorPrimaryAccent
			w.stepLabels[i].Color = ColorTextPrimary
		default:
			w.stepIndicators[i].FillColor = ColorStepInactive
			w.stepIndicators[i].StrokeColor = ColorBorder
			w.stepLabels[i].Color = ColorTextSecondary
		}
		w.stepIndicators[i].Refresh()
		w.stepLabels[i].Refresh()
	}
}

// SetStepContent sets the content for a specific step
func (w *Wizard) SetStepContent(step WizardStep, content fyne.CanvasObject) {
	w.stepContents[step] = content
}

// SetOnStepChange sets the callback for when the step changes
func (w *Wizard) SetOnStepChange(callback func(WizardStep)) {
	w.onStepChange = callback
}

// SetCanProceed sets the validation callback for step transitions
func (w *Wizard) SetCanProceed(callback func(WizardStep) bool) {
	w.canProceed = callback
}

// SetStatusIndicator sets an optional status indicator to display in the footer
func (w *Wizard) SetStatusIndicator(indicator fyne.CanvasObject) {
	w.statusIndicator = indicator
}

// Next moves to the next step
func (w *Wizard) Next() {
	if w.canProceed != nil && !w.canProceed(w.currentStep) {
		return
	}
	if w.currentStep < StepConvert {
		w.GoToStep(w.currentStep + 1)
	}
}

// Previous moves to the previous step
func (w *Wizard) Previous() {
	if w.currentStep > StepFolders {
		w.GoToStep(w.currentStep - 1)
	}
}

// GoToStep navigates to a specific step
func (w *Wizard) GoToStep(step WizardStep) {
	if step < StepFolders || step > StepConvert {
		return
	}

	w.currentStep = step
	w.updateStepIndicator()
	w.updateNavButtons()
	w.updateContent()

	if w.onStepChange != nil {
		w.onStepChange(step)
	}
}

// CurrentStep returns the current wizard step
func (w *Wizard) CurrentStep() WizardStep {
	return w.currentStep
}

func (w *Wizard) updateNavButtons() {
	if w.currentStep == StepFolders {
		w.backButton.Disable()
	} else {
		w.backButton.Enable()
	}

	switch w.currentStep {
	case StepConvert:
		w.nextButton.SetText("Done")
		w.nextButton.Disable() // enabled when the run finishes
	case StepOptions:
		w.nextButton.SetText("Convert")
		w.nextButton.Enable()
	default:
		w.nextButton.SetText("Next")
		w.nextButton.Enable()
	}
}

func (w *Wizard) updateContent() {
	if w.contentContainer == nil {
		return
	}

	w.contentContainer.Objects = nil
	if content, ok := w.stepContents[w.currentStep]; ok {
		w.contentContainer.Objects = []fyne.CanvasObject{content}
	}
	w.contentContainer.Refresh()
}

// SetNextEnabled enables or disables the next button
func (w *Wizard) SetNextEnabled(enabled bool) {
	if enabled {
		w.nextButton.Enable()
	} else {
		w.nextButton.Disable()
	}
}

// SetBackEnabled enables or disables the back button
func (w *Wizard) SetBackEnabled(enabled bool) {
	if enabled && w.currentStep > StepFolders {
		w.backButton.Enable()
	} else {
		w.backButton.Disable()
	}
}

// Build creates the complete wizard UI
func (w *Wizard) Build() fyne.CanvasObject {
	w.contentContainer = container.NewStack()
	if content, ok := w.stepContents[w.currentStep]; ok {
		w.contentContainer.Objects = []fyne.CanvasObject{content}
	}

	contentBg := canvas.NewRectangle(ColorCardBackground)
	contentBg.CornerRadius = 8
	contentCard := container.NewStack(contentBg, container.NewPadded(w.contentContainer))

	var middle fyne.CanvasObject = layout.NewSpacer()
	if w.statusIndicator != nil {
		middle = container.NewCenter(w.statusIndicator)
	}
	bottomRow := container.NewBorder(nil, nil, w.backButton, w.nextButton, middle)

	separator := canvas.NewRectangle(ColorBorder)
	separator.SetMinSize(fyne.NewSize(0, 1))

	return container.NewBorder(
		container.NewVBox(
			container.NewPadded(container.NewCenter(w.stepIndicator)),
			separator,
		),
		container.NewPadded(bottomRow),
		nil, nil,
		container.NewPadded(contentCard),
	)
}
