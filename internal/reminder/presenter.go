package reminder

import "sync"

// Prompt surface dimensions in physical pixels.
const (
	PromptWidth  = 640
	PromptHeight = 196
	PromptMargin = 28
)

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Prompt is one reminder surfaced to the user.
type Prompt struct {
	ID     uint64 `json:"id"`
	Text   string `json:"text"`
	Theme  string `json:"theme"`
	Bounds Rect   `json:"bounds"`
}

// PromptBounds anchors the prompt to the bottom-right corner of the work
// area, inset by PromptMargin on both axes.
func PromptBounds(area Rect) Rect {
	return Rect{
		X:      area.X + area.Width - PromptWidth - PromptMargin,
		Y:      area.Y + area.Height - PromptHeight - PromptMargin,
		Width:  PromptWidth,
		Height: PromptHeight,
	}
}

// Presenter is the surface prompts appear on. The scheduler invokes it
// while holding its own lock, so implementations must not call back into
// the Scheduler. All methods are best-effort; implementations log their
// own failures.
type Presenter interface {
	// Present reports whether a prompt surface exists at all. When it
	// returns false the scheduler fires reminders without arming a
	// session.
	Present() bool
	// Visible reports whether the surface is currently shown.
	Visible() bool
	// WorkArea returns the screen region prompts are positioned within.
	WorkArea() Rect
	// Show surfaces a newly armed prompt.
	Show(p Prompt)
	// Reshow re-surfaces the active prompt after it was hidden without
	// being acknowledged. The tip text is unchanged.
	Reshow(id uint64)
	// Hide dismisses the surface.
	Hide()
}

// HeadlessPresenter is the built-in Presenter for daemon deployments
// with no attached shell. It tracks visibility in memory and records the
// last prompt shown so the API can report it.
type HeadlessPresenter struct {
	mu      sync.Mutex
	present bool
	visible bool
	area    Rect
	last    Prompt
	shows   int
	reshows int
	hides   int
}

// NewHeadlessPresenter returns a presenter that is always present with a
// 1920x1080 work area.
func NewHeadlessPresenter() *HeadlessPresenter {
	return &HeadlessPresenter{
		present: true,
		area:    Rect{Width: 1920, Height: 1080},
	}
}

func (h *HeadlessPresenter) Present() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.present
}

func (h *HeadlessPresenter) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

func (h *HeadlessPresenter) WorkArea() Rect {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.area
}

func (h *HeadlessPresenter) Show(p Prompt) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = p
	h.visible = true
	h.shows++
}

func (h *HeadlessPresenter) Reshow(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = true
	h.reshows++
}

func (h *HeadlessPresenter) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
	h.hides++
}

// SetPresent simulates the surface appearing or going away.
func (h *HeadlessPresenter) SetPresent(present bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.present = present
}

// SetVisible overrides visibility, e.g. the user hiding the surface out
// of band.
func (h *HeadlessPresenter) SetVisible(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = visible
}

// SetWorkArea overrides the reported work area.
func (h *HeadlessPresenter) SetWorkArea(area Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.area = area
}

// LastPrompt returns the most recent prompt passed to Show.
func (h *HeadlessPresenter) LastPrompt() Prompt {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Counts returns how many times Show, Reshow and Hide ran.
func (h *HeadlessPresenter) Counts() (shows, reshows, hides int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shows, h.reshows, h.hides
}
