package calendar

import (
	"math"

	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

// ClickThreshold is the pointer travel, in pixels, below which a press and
// release counts as a click rather than a drag.
const ClickThreshold = 4.0

// State is the gesture state of a block.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Edge names a side of a block.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Handlers receive block events. Nil handlers are skipped.
type Handlers struct {
	// Change fires on every gesture step that yields a new timeslot.
	Change func(models.Meeting)
	// Move fires once when a drag or resize that changed the meeting ends.
	Move func(models.Meeting)
	// Click fires when the pointer is released without dragging.
	Click func(pos Position, height float64)
	// Drag fires once when a gesture starts moving the block.
	Drag func()
}

// Deferrer runs fn once the current pointer event has been dispatched.
type Deferrer func(fn func())

// Immediate runs fn synchronously.
func Immediate(fn func()) { fn() }

// gesture is the block geometry captured when a gesture starts. Every
// movement is applied to this snapshot, so a repeated callback with the same
// cumulative delta is idempotent.
type gesture struct {
	pointer Position
	pos     Position
	height  float64
	edge    Edge
	meeting models.Meeting
	changed bool
}

// Block is one draggable, resizable meeting on the calendar grid. Events
// must be delivered serially; independent blocks share no state.
type Block struct {
	mapper   Mapper
	meeting  models.Meeting
	handlers Handlers
	deferFn  Deferrer

	state   State
	pressed bool
	g       gesture
}

// NewBlock binds meeting to the grid described by mapper.
func NewBlock(mapper Mapper, meeting models.Meeting, handlers Handlers, deferFn Deferrer) *Block {
	if deferFn == nil {
		deferFn = Immediate
	}
	return &Block{mapper: mapper, meeting: meeting, handlers: handlers, deferFn: deferFn}
}

// Meeting returns the meeting as last computed.
func (b *Block) Meeting() models.Meeting { return b.meeting }

// SetMeeting replaces the bound meeting outside of a gesture.
func (b *Block) SetMeeting(m models.Meeting) {
	if b.state == StateIdle && !b.pressed {
		b.meeting = m
	}
}

// State returns the current gesture state.
func (b *Block) State() State { return b.state }

// Position returns the block's top-left corner.
func (b *Block) Position() Position { return b.mapper.Position(b.meeting.Time) }

// Height returns the block's pixel height.
func (b *Block) Height() float64 { return Height(b.meeting.Time) }

// PointerDown starts a potential drag at p.
func (b *Block) PointerDown(p Position) {
	if b.state != StateIdle {
		return
	}
	b.pressed = true
	b.begin(p, "")
}

// PointerMove drags the block by the travel since PointerDown. The block
// starts dragging once the travel reaches ClickThreshold.
func (b *Block) PointerMove(p Position) error {
	if !b.pressed {
		return nil
	}
	dx, dy := p.X-b.g.pointer.X, p.Y-b.g.pointer.Y
	if b.state == StateIdle {
		if math.Hypot(dx, dy) < ClickThreshold {
			return nil
		}
		b.state = StateDragging
		if b.handlers.Drag != nil {
			b.handlers.Drag()
		}
	}
	if b.state != StateDragging {
		return nil
	}
	maxX := float64(daysPerWeek-1) * b.mapper.ColumnWidth
	pos := Position{
		X: math.Min(math.Max(b.g.pos.X+dx, 0), maxX),
		Y: math.Max(b.g.pos.Y+dy, 0),
	}
	return b.apply(b.g.height, pos)
}

// PointerUp ends a press. A release closer than ClickThreshold to the press
// point is a click and puts the meeting back where the press found it;
// otherwise the dragged meeting is committed. The block
// returns to idle through the deferrer so handlers still observe the gesture.
func (b *Block) PointerUp(p Position) {
	if !b.pressed {
		return
	}
	b.pressed = false
	travel := math.Hypot(p.X-b.g.pointer.X, p.Y-b.g.pointer.Y)
	if b.state != StateDragging {
		b.click()
		return
	}
	if travel < ClickThreshold {
		b.restore()
		b.click()
	} else {
		b.commit()
	}
	b.reset()
}

// ResizeStart begins resizing from edge. Only the top and bottom edges can
// be dragged; the day column is fixed once a block exists.
func (b *Block) ResizeStart(edge Edge) error {
	if edge != EdgeTop && edge != EdgeBottom {
		return appErrors.ErrUnsupportedEdge
	}
	if b.state != StateIdle || b.pressed {
		return nil
	}
	b.state = StateResizing
	b.begin(b.Position(), edge)
	if b.handlers.Drag != nil {
		b.handlers.Drag()
	}
	return nil
}

// Resize applies delta, the cumulative growth in pixels since ResizeStart.
// Growing from the top keeps the bottom edge fixed; growing from the bottom
// keeps the top fixed and stops at midnight.
func (b *Block) Resize(delta float64) error {
	if b.state != StateResizing {
		return nil
	}
	height := math.Max(b.g.height+delta, MinHeight)
	pos := b.g.pos
	if b.g.edge == EdgeBottom {
		height = math.Min(height, dayHeight-pos.Y)
	}
	if b.g.edge == EdgeTop {
		pos.Y = b.g.pos.Y + b.g.height - height
		if pos.Y < 0 {
			height += pos.Y
			pos.Y = 0
		}
	}
	return b.apply(height, pos)
}

// ResizeStop commits the resized meeting.
func (b *Block) ResizeStop() {
	if b.state != StateResizing {
		return
	}
	b.commit()
	b.reset()
}

func (b *Block) begin(pointer Position, edge Edge) {
	b.g = gesture{pointer: pointer, pos: b.Position(), height: b.Height(), edge: edge, meeting: b.meeting}
}

// restore undoes the steps of the current gesture.
func (b *Block) restore() {
	if !b.g.changed {
		return
	}
	b.meeting = b.g.meeting
	b.g.changed = false
	if b.handlers.Change != nil {
		b.handlers.Change(b.meeting)
	}
}

func (b *Block) apply(height float64, pos Position) error {
	t, err := b.mapper.Timeslot(height, pos, b.meeting.ID)
	if err != nil {
		return err
	}
	if t.Equal(b.meeting.Time) {
		return nil
	}
	b.meeting = b.meeting.WithTime(t)
	b.g.changed = true
	if b.handlers.Change != nil {
		b.handlers.Change(b.meeting)
	}
	return nil
}

func (b *Block) click() {
	if b.handlers.Click != nil {
		b.handlers.Click(b.Position(), b.Height())
	}
}

func (b *Block) commit() {
	if b.g.changed && b.handlers.Move != nil {
		b.handlers.Move(b.meeting)
	}
}

func (b *Block) reset() {
	b.deferFn(func() {
		b.state = StateIdle
		b.g = gesture{}
	})
}
