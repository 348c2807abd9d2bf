package listctrl

// ScrollSurface is the document surface whose scrolling is suspended while
// a modal is open. The dashboard front end maps this onto the body
// overflow style; tests use the in-memory implementation below.
type ScrollSurface interface {
	Overflow() string
	SetOverflow(value string)
}

// BodySurface is an in-memory ScrollSurface.
type BodySurface struct {
	overflow string
}

func NewBodySurface(initial string) *BodySurface {
	return &BodySurface{overflow: initial}
}

func (b *BodySurface) Overflow() string { return b.overflow }

func (b *BodySurface) SetOverflow(value string) { b.overflow = value }

// scrollLock suspends scrolling on open and restores the prior value on
// close. The prior value is captured only on the unlocked→locked edge, so
// repeated opens without an intervening close cannot capture "hidden" as
// the value to restore.
type scrollLock struct {
	surface ScrollSurface
	locked  bool
	prev    string
}

func (s *scrollLock) lock() {
	if s.locked || s.surface == nil {
		return
	}
	s.prev = s.surface.Overflow()
	s.surface.SetOverflow("hidden")
	s.locked = true
}

func (s *scrollLock) unlock() {
	if !s.locked || s.surface == nil {
		return
	}
	s.surface.SetOverflow(s.prev)
	s.locked = false
}
