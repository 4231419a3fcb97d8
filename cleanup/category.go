package cleanup

import (
	"github.com/dockmop/dockmop/runtime"
)

// Category is one user-selectable cleanup action: one or more resource
// kinds processed in a fixed order. The order is purely for predictable
// output; the kinds are independent of each other.
type Category struct {
	Name  string
	Label string
	Kinds []runtime.Kind

	// Aggressive widens the image predicate to tagged-but-unreferenced
	// images and additionally drops the build cache. It demands the strong
	// confirmation token, never a plain y/n.
	Aggressive bool
}

var (
	Containers = Category{
		Name:  "containers",
		Label: "Remove stopped containers",
		Kinds: []runtime.Kind{runtime.KindContainer},
	}
	Volumes = Category{
		Name:  "volumes",
		Label: "Remove dangling volumes",
		Kinds: []runtime.Kind{runtime.KindVolume},
	}
	Networks = Category{
		Name:  "networks",
		Label: "Remove unused networks",
		Kinds: []runtime.Kind{runtime.KindNetwork},
	}
	Images = Category{
		Name:  "images",
		Label: "Remove dangling images",
		Kinds: []runtime.Kind{runtime.KindImage},
	}
	Standard = Category{
		Name:  "standard",
		Label: "Standard clean (containers, volumes, networks)",
		Kinds: []runtime.Kind{runtime.KindContainer, runtime.KindVolume, runtime.KindNetwork},
	}
	Full = Category{
		Name:  "full",
		Label: "Full clean (standard + dangling images)",
		Kinds: []runtime.Kind{runtime.KindContainer, runtime.KindVolume, runtime.KindNetwork, runtime.KindImage},
	}
	Aggressive = Category{
		Name:       "aggressive",
		Label:      "Aggressive clean (everything unused, tagged images, build cache)",
		Kinds:      []runtime.Kind{runtime.KindContainer, runtime.KindVolume, runtime.KindNetwork, runtime.KindImage},
		Aggressive: true,
	}
)
