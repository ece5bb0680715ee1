// Package programs provides the built-in agent programs and the loader that
// hands a fresh instance to every agent.
package programs

import (
	"sort"
	"strconv"

	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/pkg/errors"
)

var ErrUnknownProgram = errors.New("unknown program")

type Factory func() agent.Program

type Loader struct {
	factories map[string]Factory
}

func NewLoader() *Loader {
	return &Loader{
		factories: make(map[string]Factory),
	}
}

// DefaultLoader knows every built-in program.
func DefaultLoader() *Loader {
	loader := NewLoader()

	loader.Register("gradient", func() agent.Program { return MakeGradient() })
	loader.Register("randomwalk", func() agent.Program { return MakeRandomWalk() })
	loader.Register("gradient-walk", func() agent.Program { return MakeGradientWalk() })
	loader.Register("static", func() agent.Program { return Static{} })

	return loader
}

func (loader *Loader) Register(name string, factory Factory) {
	loader.factories[name] = factory
}

// Load returns a new program instance; call it once per agent.
func (loader *Loader) Load(name string) (agent.Program, error) {
	factory, ok := loader.factories[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownProgram, strconv.Quote(name))
	}

	return factory(), nil
}

func (loader *Loader) Names() []string {
	names := make([]string, 0, len(loader.factories))
	for name := range loader.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func Load(name string) (agent.Program, error) {
	return DefaultLoader().Load(name)
}
