package timeline

import (
	"github.com/mogaika/scene_studio/utils"
)

// Mapper converts container scroll offsets into a bounded timeline
// position. Positions are measured in "vh" units: scrolling one
// viewport height advances the position by 100.
type Mapper struct {
	lengthVh   float32
	viewportPx float32
	scrollPx   float32
	active     bool

	position float32
	progress float32
}

func NewMapper(lengthVh float32) *Mapper {
	return &Mapper{lengthVh: lengthVh, viewportPx: 1}
}

func (m *Mapper) LengthVh() float32 { return m.lengthVh }
func (m *Mapper) Position() float32 { return m.position }
func (m *Mapper) Progress() float32 { return m.progress }
func (m *Mapper) Active() bool      { return m.active }

func (m *Mapper) SetLength(lengthVh float32) {
	m.lengthVh = lengthVh
	m.recompute()
}

// SetActive gates the mapping on the fixed-camera authoring mode.
// While inactive position and progress are forced to zero.
func (m *Mapper) SetActive(active bool) {
	m.active = active
	m.recompute()
}

func (m *Mapper) OnScroll(offsetPx float32) {
	m.scrollPx = offsetPx
	m.recompute()
}

func (m *Mapper) OnResize(viewportPx float32) {
	if viewportPx > 0 {
		m.viewportPx = viewportPx
	}
	m.recompute()
}

func (m *Mapper) recompute() {
	if !m.active {
		m.position = 0
		m.progress = 0
		return
	}
	m.position = utils.Clampf(m.scrollPx/m.viewportPx*100, 0, m.lengthVh)
	// the container can only scroll by its content height minus one
	// viewport, same as a DOM scrollTop maximum
	scrollable := (m.lengthVh/100 - 1) * m.viewportPx
	if scrollable > 0 {
		m.progress = utils.Clampf(m.scrollPx/scrollable, 0, 1)
	} else {
		m.progress = 0
	}
}

// Seek writes the position directly through the same clamps,
// independent of actual scroll. Used by the playhead and the ruler.
func (m *Mapper) Seek(position float32) {
	if !m.active {
		return
	}
	// keep the backing scroll offset in sync so the next real scroll
	// event does not jump
	m.scrollPx = utils.Clampf(position, 0, m.lengthVh) / 100 * m.viewportPx
	m.recompute()
}
