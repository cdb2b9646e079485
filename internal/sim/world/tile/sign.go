package tile

import "encoding/json"

const (
	SignLines   = 4
	SignLineMax = 15
)

// Sign holds four fixed lines of text plus color/glow metadata. Lines
// are clamped to the line limit both on write and on restore.
type Sign struct {
	pos Pos

	Lines   [SignLines]string
	Color   string
	Glowing bool
}

func NewSign(pos Pos) *Sign { return &Sign{pos: pos} }

func (s *Sign) Pos() Pos    { return s.pos }
func (s *Sign) Kind() Kind  { return KindSign }
func (s *Sign) Tick(dt int) {}

// clampLine truncates to SignLineMax characters, never splitting a rune.
func clampLine(text string) string {
	n := 0
	for i := range text {
		if n == SignLineMax {
			return text[:i]
		}
		n++
	}
	return text
}

// SetLine writes one line, clamping its length. Bad indices no-op.
func (s *Sign) SetLine(i int, text string) {
	if i < 0 || i >= SignLines {
		return
	}
	s.Lines[i] = clampLine(text)
}

func (s *Sign) Line(i int) string {
	if i < 0 || i >= SignLines {
		return ""
	}
	return s.Lines[i]
}

type signStateV1 struct {
	Lines   []string `json:"lines"`
	Color   string   `json:"color,omitempty"`
	Glowing bool     `json:"glowing,omitempty"`
}

func (s *Sign) State() json.RawMessage {
	raw, _ := json.Marshal(signStateV1{
		Lines:   s.Lines[:],
		Color:   s.Color,
		Glowing: s.Glowing,
	})
	return raw
}

func (s *Sign) Restore(state json.RawMessage) {
	var v signStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	s.Lines = [SignLines]string{}
	for i := 0; i < SignLines && i < len(v.Lines); i++ {
		s.Lines[i] = clampLine(v.Lines[i])
	}
	s.Color = v.Color
	s.Glowing = v.Glowing
}
