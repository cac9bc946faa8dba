package core

// Input tracks live key and mouse state from the event stream. Layers poll
// it for held keys each update; one-shot presses go through OnEvent.
type Input struct {
	keys           map[Key]bool
	mouseX, mouseY float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

// Axis folds an opposing key pair into -1, 0 or 1. Both keys held cancel
// out, which is what camera pan wants.
func (in *Input) Axis(neg, pos Key) float32 {
	var v float32
	if in.keys[neg] {
		v--
	}
	if in.keys[pos] {
		v++
	}
	return v
}
