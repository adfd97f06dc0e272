package interaction

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/engine"
)

var ErrUnknownTeam = errors.New("unknown team")
var ErrTeamNotInPool = errors.New("team is not in the pool")
var ErrEmptySlot = errors.New("slot is empty")
var ErrUnsupportedInput = errors.New("unsupported input")

type InputType string

const (
	InSelectCategory InputType = "SelectCategory"
	InClickPoolTeam  InputType = "ClickPoolTeam"
	InClickPoolArea  InputType = "ClickPoolArea"
	InClickRank      InputType = "ClickRank"
	InDragStart      InputType = "DragStart"
	InDropOnRank     InputType = "DropOnRank"
	InDropOnPool     InputType = "DropOnPool"
	InClearSelection InputType = "ClearSelection"
)

// Input is one pointer event from any surface. Which fields are read depends
// on Type: Category for SelectCategory, TeamID for ClickPoolTeam, Index for
// ClickRank and DropOnRank, Source for DragStart and Payload for drops.
type Input struct {
	Type     InputType
	Category string
	TeamID   string
	Index    int
	Source   DragSource
	Payload  []byte
}

type Result struct {
	// Payload is set for DragStart: the encoded source to hand back on drop.
	Payload []byte
}

type Hint string

const (
	HintIdle         Hint = "idle"
	HintChooseRank   Hint = "choose-rank"
	HintChooseTarget Hint = "choose-target"
)

type View struct {
	Active    catalog.Category
	Selection Selection
	Slots     engine.Slots
	Ranked    []*catalog.Team
	Unranked  []catalog.Team
	Rankings  map[catalog.Category]engine.Slots
	Hint      Hint
}

// Controller owns the rankings of every category, the active category and the
// selection. It is not safe for concurrent use; a board serialises access.
type Controller struct {
	catalog   *catalog.Catalog
	state     engine.State
	active    catalog.Category
	selection Selection
	history   []engine.Event
	logger    *zap.Logger
}

func NewController(c *catalog.Catalog, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		catalog: c,
		state:   engine.NewEmptyState(c.Categories),
		active:  c.DefaultCategory(),
		logger:  logger,
	}
}

func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }
func (c *Controller) Active() catalog.Category { return c.active }
func (c *Controller) Selection() Selection { return c.selection }
func (c *Controller) State() engine.State { return c.state.Clone() }
func (c *Controller) Slots() engine.Slots { return c.state.Rankings[c.active] }
func (c *Controller) History() []engine.Event { return append([]engine.Event(nil), c.history...) }

// Apply runs a ranking action on the active category. A completed action
// always clears the selection; a rejected one leaves everything as it was.
func (c *Controller) Apply(a engine.Action) error {
	events, next, err := engine.Apply(c.state, c.active, a)
	if err != nil {
		return err
	}
	c.state = next
	c.history = append(c.history, events...)
	c.selection = None
	c.logger.Debug("action applied",
		zap.String("category", string(c.active)),
		zap.String("action", string(a.Type)),
		zap.Int("events", len(events)),
	)
	return nil
}

func (c *Controller) resolve(o Outcome) error {
	if o.Action != nil {
		return c.Apply(*o.Action)
	}
	c.selection = o.Next
	return nil
}

func (c *Controller) ClickPoolTeam(teamID string) error {
	if err := c.checkPoolTeam(teamID); err != nil {
		return err
	}
	return c.resolve(ResolvePoolClick(c.selection, teamID))
}

func (c *Controller) ClickPoolArea() error {
	return c.resolve(ResolvePoolAreaClick(c.selection))
}

func (c *Controller) ClickRank(index int) error {
	if index < 0 || index >= engine.SlotCount {
		return engine.ErrSlotOutOfRange
	}
	return c.resolve(ResolveRankClick(c.selection, c.Slots(), index))
}

// DragStart validates src, selects it for visual feedback and returns the
// payload the drop target will receive.
func (c *Controller) DragStart(src DragSource) ([]byte, error) {
	switch src.Type {
	case SelectPool:
		if err := c.checkPoolTeam(src.ID); err != nil {
			return nil, err
		}
	case SelectRank:
		if src.Index == nil || *src.Index < 0 || *src.Index >= engine.SlotCount {
			return nil, engine.ErrSlotOutOfRange
		}
		id := c.Slots()[*src.Index]
		if id == "" {
			return nil, ErrEmptySlot
		}
		src.ID = id
	default:
		return nil, fmt.Errorf("%w: source type %q", ErrMalformedPayload, src.Type)
	}

	payload, err := src.Encode()
	if err != nil {
		return nil, err
	}
	c.selection = DragStartSelection(src)
	return payload, nil
}

func (c *Controller) DropOnRank(payload []byte, target int) error {
	if target < 0 || target >= engine.SlotCount {
		return engine.ErrSlotOutOfRange
	}
	src, err := c.decode(payload)
	if err != nil {
		return err
	}
	if src.Type == SelectPool {
		if _, ok := c.catalog.Team(src.ID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTeam, src.ID)
		}
	}
	return c.resolve(ResolveRankDrop(src, target))
}

func (c *Controller) DropOnPool(payload []byte) error {
	src, err := c.decode(payload)
	if err != nil {
		return err
	}
	return c.resolve(ResolvePoolDrop(src))
}

// SwitchCategory makes cat active and drops the selection. Rankings of every
// category are left as they are.
func (c *Controller) SwitchCategory(cat catalog.Category) error {
	if !c.catalog.HasCategory(cat) {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, cat)
	}
	c.active = cat
	c.selection = None
	return nil
}

func (c *Controller) ClearSelection() {
	c.selection = None
}

// Handle dispatches one input to the matching operation.
func (c *Controller) Handle(in Input) (Result, error) {
	switch in.Type {
	case InSelectCategory:
		cat, err := c.catalog.ParseCategory(in.Category)
		if err != nil {
			return Result{}, err
		}
		return Result{}, c.SwitchCategory(cat)
	case InClickPoolTeam:
		return Result{}, c.ClickPoolTeam(in.TeamID)
	case InClickPoolArea:
		return Result{}, c.ClickPoolArea()
	case InClickRank:
		return Result{}, c.ClickRank(in.Index)
	case InDragStart:
		payload, err := c.DragStart(in.Source)
		return Result{Payload: payload}, err
	case InDropOnRank:
		return Result{}, c.DropOnRank(in.Payload, in.Index)
	case InDropOnPool:
		return Result{}, c.DropOnPool(in.Payload)
	case InClearSelection:
		c.ClearSelection()
		return Result{}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedInput, in.Type)
	}
}

func (c *Controller) View() View {
	return View{
		Active:    c.active,
		Selection: c.selection,
		Slots:     c.Slots(),
		Ranked:    engine.RankedTeams(c.catalog, c.state, c.active),
		Unranked:  engine.UnrankedTeams(c.catalog, c.state, c.active),
		Rankings:  c.State().Rankings,
		Hint:      hintFor(c.selection),
	}
}

func hintFor(sel Selection) Hint {
	switch sel.Kind {
	case SelectPool:
		return HintChooseRank
	case SelectRank:
		return HintChooseTarget
	default:
		return HintIdle
	}
}

// decode parses a drop payload; bad payloads are logged and change nothing.
func (c *Controller) decode(payload []byte) (DragSource, error) {
	src, err := DecodeDragSource(payload)
	if err != nil {
		c.logger.Warn("drop error", zap.Error(err), zap.ByteString("payload", payload))
		return DragSource{}, err
	}
	return src, nil
}

func (c *Controller) checkPoolTeam(teamID string) error {
	if _, ok := c.catalog.Team(teamID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, teamID)
	}
	if c.Slots().IndexOf(teamID) >= 0 {
		return fmt.Errorf("%w: %q", ErrTeamNotInPool, teamID)
	}
	return nil
}
