package cleanup

import (
	"fmt"
	"io"
	"strings"

	"emperror.dev/errors"
	"github.com/charmbracelet/huh"

	"github.com/dockmop/dockmop/runtime"
)

// AggressiveToken must be typed verbatim to approve an aggressive clean.
// A plain "y" is deliberately not enough: this category removes tagged
// images and the whole build cache.
const AggressiveToken = "erase"

// ValidateAggressiveToken checks a typed confirmation for the aggressive
// category.
func ValidateAggressiveToken(input string) bool {
	return strings.TrimSpace(input) == AggressiveToken
}

// Gate decides whether a destructive action may proceed. No removal call is
// ever issued before the gate approves; declining leaves the runtime
// untouched.
type Gate interface {
	// Confirm asks for approval to remove the given candidates. False with
	// a nil error is a decline, never a failure.
	Confirm(set CandidateSet) (bool, error)

	// ConfirmAggressive asks for the strong confirmation token guarding the
	// aggressive category.
	ConfirmAggressive() (bool, error)
}

// InteractiveGate prompts the operator on the terminal. Any non-affirmative
// answer, including the default, is a decline.
type InteractiveGate struct {
	Display *DisplayContext
}

func (g *InteractiveGate) Confirm(set CandidateSet) (bool, error) {
	g.Display.RenderCandidates(set)

	approved := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Remove these %d %s?", len(set.Items), set.Kind.Human())).
		Value(&approved).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.Wrap(err, "cleanup: confirmation prompt")
	}
	return approved, nil
}

func (g *InteractiveGate) ConfirmAggressive() (bool, error) {
	var input string
	err := huh.NewInput().
		Title("Aggressive clean removes ALL unused resources, including tagged images and the entire build cache.").
		Description(fmt.Sprintf("Type %q to continue, anything else to abort.", AggressiveToken)).
		Value(&input).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.Wrap(err, "cleanup: confirmation prompt")
	}
	return ValidateAggressiveToken(input), nil
}

// BatchGate approves the categories the operator already requested on the
// command line without prompting. The aggressive token is the one
// exception: it is demanded even in batch mode.
type BatchGate struct {
	Requested map[runtime.Kind]bool
	In        io.Reader
	Out       io.Writer
}

func (g *BatchGate) Confirm(set CandidateSet) (bool, error) {
	return g.Requested[set.Kind], nil
}

func (g *BatchGate) ConfirmAggressive() (bool, error) {
	fmt.Fprintf(g.Out, "WARNING! This removes all unused resources, tagged images and the build cache.\nType %q to continue: ", AggressiveToken)
	var input string
	fmt.Fscanln(g.In, &input)
	return ValidateAggressiveToken(input), nil
}
