package cursor

import (
	"errors"
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/pile"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/rules"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

var (
	ErrInvalidOrder   = errors.New("pile order must list every pile exactly once")
	ErrInvalidPile    = errors.New("pile index out of range")
	ErrUnknownCommand = errors.New("unknown command")
)

type State string

const (
	Idle     State = "idle"
	Selected State = "selected"
)

// Position addresses a card by pile and by distance from the top of that
// pile. Card 0 on an empty pile is the pile anchor.
type Position struct {
	Pile int `json:"pile"`
	Card int `json:"card"`
}

// Selection is a pending move source: the top Length cards of Origin.
type Selection struct {
	Origin int `json:"origin"`
	Length int `json:"length"`
}

// FromTop is the index of the deepest selected card.
func (s Selection) FromTop() int {
	return s.Length - 1
}

// Hint keys attached to cursor events when command hints are on.
const (
	HintSelect = "select"
	HintExtend = "extend"
	HintCommit = "commit"
	HintDraw   = "draw"
	HintAuto   = "auto"
)

// Board is the read side of the table.
type Board interface {
	Pile(i int) *pile.Pile
}

// Mover performs the moves a commit asks for. Failures must leave the
// table unchanged.
type Mover interface {
	Move(src, fromTop, dst int) error
	AutoMove(src int) error
	DrawCard() error
}

type Options struct {
	// Order is the Left/Right ring. Empty means table order 0..12.
	Order []int
	Hints bool
}

// DefaultOrder is tableau, foundations, waste, stock.
func DefaultOrder() []int {
	out := make([]int, table.NumPiles)
	for i := range out {
		out[i] = i
	}
	return out
}

// Controller maps key commands to cursor movement, selection and moves.
// It holds indices only and reads the board fresh on every command.
type Controller struct {
	board Board
	mover Mover
	pub   telemetry.Publisher
	order []int
	hints bool

	pos Position
	sel *Selection
}

func New(board Board, mover Mover, pub telemetry.Publisher, opts Options) (*Controller, error) {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder()
	}
	if err := validateOrder(order); err != nil {
		return nil, err
	}
	if pub == nil {
		pub = telemetry.Discard{}
	}
	return &Controller{
		board: board,
		mover: mover,
		pub:   pub,
		order: append([]int(nil), order...),
		hints: opts.Hints,
	}, nil
}

func validateOrder(order []int) error {
	if len(order) != table.NumPiles {
		return fmt.Errorf("%w: got %d piles", ErrInvalidOrder, len(order))
	}
	seen := make(map[int]bool, len(order))
	for _, i := range order {
		if !table.IsValidIndex(i) || seen[i] {
			return fmt.Errorf("%w: %v", ErrInvalidOrder, order)
		}
		seen[i] = true
	}
	return nil
}

func (c *Controller) State() State {
	c.dropStale()
	if c.sel != nil {
		return Selected
	}
	return Idle
}

func (c *Controller) Position() Position {
	return c.pos
}

// Selection reports the held run. A run the table no longer holds is dropped
// first, so moves made outside the cursor never leave a stale selection.
func (c *Controller) Selection() (Selection, bool) {
	c.dropStale()
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// DropSelection forgets the held run. The service calls it whenever the
// table changes under the cursor.
func (c *Controller) DropSelection() {
	c.sel = nil
}

func (c *Controller) SetHints(on bool) {
	c.hints = on
}

// Handle applies one command. Only commits and draws return move errors;
// navigation problems are reported as events.
func (c *Controller) Handle(cmd Command) error {
	c.clamp()
	switch cmd.Kind {
	case Navigate:
		return c.navigate(cmd.Pile)
	case Up:
		c.moveCard(1)
	case Down:
		c.moveCard(-1)
	case Left:
		c.step(-1)
	case Right:
		c.step(1)
	case Home:
		c.setCard(c.current().Len() - 1)
	case End:
		c.setCard(0)
	case Tab:
		c.nextGroup()
	case Select:
		c.selectAtCursor()
	case Cancel:
		c.cancel()
	case Commit:
		return c.commit()
	case Draw:
		return c.draw()
	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

func (c *Controller) current() *pile.Pile {
	return c.board.Pile(c.pos.Pile)
}

// clamp pulls the cursor back inside its pile and drops a selection the
// table no longer supports.
func (c *Controller) clamp() {
	p := c.current()
	if c.pos.Card > p.Len()-1 {
		c.pos.Card = max(p.Len()-1, 0)
	}
	c.dropStale()
}

func (c *Controller) dropStale() {
	if c.sel == nil {
		return
	}
	op := c.board.Pile(c.sel.Origin)
	if op.Len() < c.sel.Length || !rules.IsValidRun(op.Top(c.sel.Length)) {
		c.sel = nil
	}
}

func (c *Controller) navigate(i int) error {
	if !table.IsValidIndex(i) {
		return fmt.Errorf("%w: %d", ErrInvalidPile, i)
	}
	c.pos = Position{Pile: i}
	c.emit(telemetry.EventUiNavigate, nil)
	return nil
}

func (c *Controller) moveCard(delta int) {
	next := c.pos.Card + delta
	if next < 0 || next > max(c.current().Len()-1, 0) {
		c.emit(telemetry.EventUiBoundaryHit, telemetry.EventMetadata{"direction": delta})
		return
	}
	c.setCard(next)
}

func (c *Controller) setCard(i int) {
	c.pos.Card = max(i, 0)
	c.emit(telemetry.EventUiNavigate, nil)
}

func (c *Controller) ringIndex() int {
	for i, p := range c.order {
		if p == c.pos.Pile {
			return i
		}
	}
	return 0
}

func (c *Controller) step(dir int) {
	n := len(c.order)
	next := (c.ringIndex() + dir + n) % n
	_ = c.navigate(c.order[next])
}

func group(i int) int {
	switch {
	case table.IsTableau(i):
		return 0
	case table.IsFoundation(i):
		return 1
	}
	return 2
}

// nextGroup jumps tableau, foundations, waste and stock, then back to the
// tableau, landing on the first pile of the group in ring order.
func (c *Controller) nextGroup() {
	want := (group(c.pos.Pile) + 1) % 3
	for _, p := range c.order {
		if group(p) == want {
			_ = c.navigate(p)
			return
		}
	}
}

func (c *Controller) selectAtCursor() {
	if c.sel != nil && c.sel.Origin == c.pos.Pile {
		c.extend()
		return
	}
	c.sel = nil

	p := c.current()
	switch {
	case p.IsEmpty():
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{"reason": "empty_pile"})
		return
	case p.Role == pile.RoleStock:
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{"reason": "stock"})
		return
	case p.Role != pile.RoleTableau && c.pos.Card != 0:
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{"reason": "covered_card"})
		return
	}

	top, _ := p.Get(c.pos.Card)
	if !top.FaceUp {
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{"reason": "face_down"})
		return
	}
	n := c.pos.Card + 1
	if !rules.IsValidRun(p.Top(n)) {
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{"reason": "not_a_run"})
		return
	}
	c.sel = &Selection{Origin: c.pos.Pile, Length: n}
	c.emit(telemetry.EventUiSelect, telemetry.EventMetadata{"length": n})
}

// extend adds the card beneath the selection when the run stays valid.
func (c *Controller) extend() {
	p := c.board.Pile(c.sel.Origin)
	n := c.sel.Length + 1
	if p.Role != pile.RoleTableau || p.Len() < n || !rules.IsValidRun(p.Top(n)) {
		c.emit(telemetry.EventBoundaryHit, telemetry.EventMetadata{
			"reason": "not_a_run",
			"length": c.sel.Length,
		})
		return
	}
	c.sel.Length = n
	c.pos.Card = n - 1
	c.emit(telemetry.EventUiSelect, telemetry.EventMetadata{"length": n, "extended": true})
}

func (c *Controller) cancel() {
	had := c.sel != nil
	c.sel = nil
	c.emit(telemetry.EventUiCancel, telemetry.EventMetadata{"had_selection": had})
}

// commit moves the selection onto the pile under the cursor. Without a
// selection the top card under the cursor goes to a foundation, and the
// stock draws.
func (c *Controller) commit() error {
	if c.sel == nil {
		if c.current().Role == pile.RoleStock {
			return c.draw()
		}
		if err := c.mover.AutoMove(c.pos.Pile); err != nil {
			return err
		}
		c.pos.Card = 0
		return nil
	}
	if err := c.mover.Move(c.sel.Origin, c.sel.FromTop(), c.pos.Pile); err != nil {
		return err
	}
	c.sel = nil
	c.pos.Card = 0
	return nil
}

func (c *Controller) draw() error {
	if err := c.mover.DrawCard(); err != nil {
		return err
	}
	c.sel = nil
	c.clamp()
	return nil
}

func (c *Controller) hint() string {
	p := c.current()
	switch {
	case c.sel != nil && c.sel.Origin == c.pos.Pile:
		return HintExtend
	case c.sel != nil:
		return HintCommit
	case p.Role == pile.RoleStock:
		return HintDraw
	case p.IsEmpty():
		return ""
	case p.Role == pile.RoleFoundation:
		return HintSelect
	}
	top, _ := p.Get(c.pos.Card)
	if !top.FaceUp {
		return ""
	}
	if c.pos.Card == 0 {
		return HintAuto
	}
	return HintSelect
}

func (c *Controller) emit(t telemetry.EventType, ctx telemetry.EventMetadata) {
	if ctx == nil {
		ctx = telemetry.EventMetadata{}
	}
	p := c.current()
	ctx["card_index"] = c.pos.Card
	ctx["pile_len"] = p.Len()
	ctx["state"] = string(c.State())
	if c.hints {
		if h := c.hint(); h != "" {
			ctx["hint"] = h
		}
	}
	e := telemetry.At(t, c.pos.Pile, ctx)
	if cd, ok := p.Get(c.pos.Card); ok {
		e.CardID = cd.ID
		if cd.FaceUp {
			ctx["card"] = cd
		}
	}
	c.pub.Publish(e)
}
