package core

type Input struct {
	keys           map[Key]bool
	buttons        map[int]bool
	mouseX, mouseY float64
	scroll         float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}, buttons: map[int]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseButton:
		in.buttons[e.Button] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	case EventScroll:
		in.scroll += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool       { return in.keys[k] }
func (in *Input) IsButtonDown(b int) bool    { return in.buttons[b] }
func (in *Input) Mouse() (float64, float64)  { return in.mouseX, in.mouseY }

// TakeScroll returns the vertical scroll accumulated since the last call.
func (in *Input) TakeScroll() float64 {
	s := in.scroll
	in.scroll = 0
	return s
}
