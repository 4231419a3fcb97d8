package cleanup

import (
	"context"

	"emperror.dev/errors"
	"github.com/charmbracelet/huh"
)

const (
	choiceUsage = "usage"
	choiceExit  = "exit"
)

// menuCategories in display order. Atomic categories first, composites
// after, the destructive one last.
var menuCategories = []Category{
	Containers,
	Volumes,
	Networks,
	Images,
	Standard,
	Full,
	Aggressive,
}

// Menu is the interactive front end: a select loop over cleanup categories
// that re-displays disk usage after every action and terminates only on the
// explicit exit choice.
type Menu struct {
	Runner *Runner
}

// Run drives the menu until the operator exits. Daemon loss is the only
// error that escapes.
func (m *Menu) Run(ctx context.Context) error {
	if err := m.Runner.ShowUsage(ctx, true); err != nil {
		return err
	}

	for {
		choice, err := m.prompt()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return errors.Wrap(err, "cleanup: menu prompt")
		}

		switch choice {
		case choiceExit:
			return nil
		case choiceUsage:
			if err := m.Runner.ShowUsage(ctx, true); err != nil {
				return err
			}
		default:
			cat, ok := categoryByName(choice)
			if !ok {
				continue
			}
			if err := m.Runner.RunCategory(ctx, cat); err != nil {
				return err
			}
			// Always show the fresh usage snapshot before re-displaying the
			// menu, so the effect of the action is visible immediately.
			if err := m.Runner.ShowUsage(ctx, false); err != nil {
				return err
			}
		}
	}
}

func (m *Menu) prompt() (string, error) {
	options := make([]huh.Option[string], 0, len(menuCategories)+2)
	for _, cat := range menuCategories {
		options = append(options, huh.NewOption(cat.Label, cat.Name))
	}
	options = append(options,
		huh.NewOption("Show disk usage", choiceUsage),
		huh.NewOption("Exit", choiceExit),
	)

	var choice string
	err := huh.NewSelect[string]().
		Title("What should be cleaned up?").
		Options(options...).
		Value(&choice).
		Run()
	return choice, err
}

func categoryByName(name string) (Category, bool) {
	for _, cat := range menuCategories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}
