package colorpick

// PickerSwatch is the pseudo swatch that toggles the hue ramp and picker.
const PickerSwatch = "palette"

// Palette tracks the selected swatch and whether the picker is open. Every
// method that changes the colour returns it.
type Palette struct {
	Selected string
	Open     bool
	Picker   *Picker
	current  string
}

// NewPalette starts on the first swatch.
func NewPalette() *Palette {
	return &Palette{Selected: Swatches[0], Picker: NewPicker(Swatches[0]), current: Swatches[0]}
}

// Color returns the current colour.
func (p *Palette) Color() string { return p.current }

// Choose selects a swatch or toggles the picker. The second result reports
// whether the colour changed.
func (p *Palette) Choose(swatch string) (string, bool) {
	if swatch == PickerSwatch {
		p.Selected = PickerSwatch
		if p.Open {
			p.Open = false
			return p.current, false
		}
		p.Open = true
		return p.set(RampStops[0]), true
	}
	hex, err := Normalize(swatch)
	if err != nil {
		return p.current, false
	}
	p.Selected = swatch
	return p.set(hex), true
}

// Ramp sets the base colour from the hue slider.
func (p *Palette) Ramp(value float64) string {
	return p.set(HueRamp(value))
}

// Pick selects a point in the picker field.
func (p *Palette) Pick(x, y int) Selection {
	sel := p.Picker.Pick(x, y)
	p.current = sel.Hex
	return sel
}

func (p *Palette) set(hex string) string {
	p.Picker.SetBase(hex)
	p.current = p.Picker.Base
	return p.current
}
