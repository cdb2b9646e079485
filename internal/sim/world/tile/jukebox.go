package tile

import "encoding/json"

// Jukebox holds at most one music disc. It has no per-tick behavior;
// playback is the host's concern.
type Jukebox struct {
	pos Pos

	Disc    string
	Playing bool
}

func NewJukebox(pos Pos) *Jukebox { return &Jukebox{pos: pos} }

func (j *Jukebox) Pos() Pos    { return j.pos }
func (j *Jukebox) Kind() Kind  { return KindJukebox }
func (j *Jukebox) Tick(dt int) {}

// InsertDisc swaps the new disc in and returns whatever was playing.
func (j *Jukebox) InsertDisc(disc string) (previous string) {
	previous = j.Disc
	j.Disc = disc
	j.Playing = disc != ""
	return previous
}

// EjectDisc stops playback and returns the disc.
func (j *Jukebox) EjectDisc() string {
	out := j.Disc
	j.Disc = ""
	j.Playing = false
	return out
}

type jukeboxStateV1 struct {
	Disc    string `json:"disc,omitempty"`
	Playing bool   `json:"playing,omitempty"`
}

func (j *Jukebox) State() json.RawMessage {
	raw, _ := json.Marshal(jukeboxStateV1{Disc: j.Disc, Playing: j.Playing})
	return raw
}

func (j *Jukebox) Restore(state json.RawMessage) {
	var v jukeboxStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	j.Disc = v.Disc
	j.Playing = v.Playing && v.Disc != ""
}
