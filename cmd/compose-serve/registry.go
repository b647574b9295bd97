package main

import (
	"fmt"
	"sort"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/handlers/calculator"
	"github.com/wasmcp/compose-go/handlers/statistics"
	"github.com/wasmcp/compose-go/handlers/strings"
	"github.com/wasmcp/compose-go/handlers/sysinfo"
)

// registry maps manifest aliases to handler constructors.
var registry = map[string]func() chain.Handler{
	"calculator":   func() chain.Handler { return calculator.New() },
	"string-utils": func() chain.Handler { return strings.New() },
	"system-info":  func() chain.Handler { return sysinfo.New() },
	"statistics":   func() chain.Handler { return statistics.New() },
	"variance":     func() chain.Handler { return statistics.NewVariance() },
	"stddev":       func() chain.Handler { return statistics.NewStdDev() },
}

// buildPipeline resolves aliases to handlers, preserving manifest order.
func buildPipeline(aliases []string) ([]chain.Handler, error) {
	handlers := make([]chain.Handler, 0, len(aliases))
	for _, alias := range aliases {
		build, ok := registry[alias]
		if !ok {
			return nil, fmt.Errorf("unknown handler %q (known: %v)", alias, knownHandlers())
		}
		handlers = append(handlers, build())
	}
	return handlers, nil
}

func knownHandlers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
