package cursor

import "fmt"

// Kind is an abstract key command. Concrete key bindings belong to the
// adapter.
type Kind int

const (
	Navigate Kind = iota
	Up
	Down
	Left
	Right
	Home
	End
	Tab
	Select
	Cancel
	Commit
	Draw
)

var kindNames = map[Kind]string{
	Navigate: "navigate",
	Up:       "up",
	Down:     "down",
	Left:     "left",
	Right:    "right",
	Home:     "home",
	End:      "end",
	Tab:      "tab",
	Select:   "select",
	Cancel:   "cancel",
	Commit:   "commit",
	Draw:     "draw",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one key press. Pile is only read by Navigate.
type Command struct {
	Kind Kind
	Pile int
}

func NavigateTo(pile int) Command {
	return Command{Kind: Navigate, Pile: pile}
}

func Key(k Kind) Command {
	return Command{Kind: k}
}
