package timeline

import (
	"testing"
)

func activeMapper(lengthVh, viewportPx float32) *Mapper {
	m := NewMapper(lengthVh)
	m.SetActive(true)
	m.OnResize(viewportPx)
	return m
}

func TestScrollMapping(t *testing.T) {
	for _, test := range []struct {
		lengthVh     float32
		viewportPx   float32
		scrollPx     float32
		wantPosition float32
		wantProgress float32
	}{
		{200, 800, 400, 50, 0.5},
		{200, 800, 800, 100, 1},
		{200, 800, 0, 0, 0},
		{200, 800, 99999, 200, 1}, // clamped to length
		{300, 1000, 1000, 100, 0.5},
		{100, 1000, 500, 50, 0}, // single-viewport timeline never scrolls
	} {
		m := activeMapper(test.lengthVh, test.viewportPx)
		m.OnScroll(test.scrollPx)
		if m.Position() != test.wantPosition {
			t.Errorf("len=%v vp=%v scroll=%v: position = %v; expected %v",
				test.lengthVh, test.viewportPx, test.scrollPx, m.Position(), test.wantPosition)
		}
		if m.Progress() != test.wantProgress {
			t.Errorf("len=%v vp=%v scroll=%v: progress = %v; expected %v",
				test.lengthVh, test.viewportPx, test.scrollPx, m.Progress(), test.wantProgress)
		}
	}
}

func TestSpecExample(t *testing.T) {
	// 200vh timeline in a 800px viewport scrolled 400px: playhead at
	// 50vh, half of the scrollable distance consumed
	m := activeMapper(200, 800)
	m.OnScroll(400)
	if m.Position() != 50 {
		t.Errorf("position = %v; expected 50", m.Position())
	}
	if m.Progress() != 0.5 {
		t.Errorf("progress = %v; expected 0.5", m.Progress())
	}
}

func TestInertWhileInactive(t *testing.T) {
	m := NewMapper(200)
	m.OnResize(800)
	m.OnScroll(400)
	if m.Position() != 0 || m.Progress() != 0 {
		t.Errorf("inactive mapper produced %v/%v", m.Position(), m.Progress())
	}

	m.SetActive(true)
	if m.Position() != 50 {
		t.Errorf("activation did not recompute from pending scroll: %v", m.Position())
	}

	m.SetActive(false)
	if m.Position() != 0 || m.Progress() != 0 {
		t.Errorf("deactivation did not force zero")
	}
}

func TestResizeRecomputes(t *testing.T) {
	m := activeMapper(200, 800)
	m.OnScroll(400)
	m.OnResize(400)
	if m.Position() != 100 {
		t.Errorf("position after resize = %v; expected 100", m.Position())
	}
}

func TestSeek(t *testing.T) {
	m := activeMapper(200, 800)

	m.Seek(75)
	if m.Position() != 75 {
		t.Errorf("position = %v; expected 75", m.Position())
	}
	if m.Progress() != 0.75 {
		t.Errorf("progress = %v; expected 0.75", m.Progress())
	}

	m.Seek(-10)
	if m.Position() != 0 {
		t.Errorf("negative seek = %v; expected clamp to 0", m.Position())
	}
	m.Seek(5000)
	if m.Position() != 200 {
		t.Errorf("overlong seek = %v; expected clamp to 200", m.Position())
	}
}

func TestSeekInactive(t *testing.T) {
	m := NewMapper(200)
	m.OnResize(800)
	m.Seek(75)
	if m.Position() != 0 {
		t.Errorf("seek while inactive moved the playhead")
	}
}

func TestSeekSyncsScroll(t *testing.T) {
	m := activeMapper(200, 800)
	m.Seek(100)
	// a later resize recomputes from the synced scroll offset
	m.OnResize(800)
	if m.Position() != 100 {
		t.Errorf("position after resize = %v; expected 100", m.Position())
	}
}
