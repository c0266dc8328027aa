package lsp

import (
	"fmt"
	"slices"

	"loom/grammar"
	"loom/internal/config"
	"loom/internal/module"
	"loom/internal/stdlib"
)

const maxExportDepth = 8

// exports lists the qualified names a module makes visible, relative to the
// module itself.
type exports struct {
	vars []string
	fns  []string
}

// moduleExports lists what path exports. Modules served from memory are
// indexed; script files are read from their export statements and never run.
func moduleExports(cfg *config.Config, path string, depth int) (exports, error) {
	if m, ok := memoryModule(cfg, path); ok {
		m.IndexAllSubModules()
		return exports{vars: m.QualifiedVarNames(), fns: m.QualifiedFnNames()}, nil
	}
	if depth >= maxExportDepth {
		return exports{}, fmt.Errorf("imports nested more than %d deep at '%s'", maxExportDepth, path)
	}
	script, err := grammar.ParseFile(cfg.FileResolver("").FilePath(path))
	if err != nil {
		return exports{}, err
	}
	return scriptExports(cfg, script, depth), nil
}

func memoryModule(cfg *config.Config, path string) (*module.Module, bool) {
	if m, ok := cfg.StaticResolver().Get(path); ok {
		return m, true
	}
	if cfg.Stdlib {
		return stdlib.Resolver().Get(path)
	}
	return nil, false
}

// scriptExports mirrors how a script becomes a module: public functions,
// exported variables, and exported imports as sub-modules.
func scriptExports(cfg *config.Config, script *grammar.Script, depth int) exports {
	lets := map[string]bool{}
	imports := map[string]string{}
	var out exports
	for _, s := range script.Statements {
		switch {
		case s.Let != nil:
			lets[s.Let.Name] = true
		case s.Import != nil:
			imports[s.Import.Alias] = s.Import.Path
		case s.Fn != nil && !s.Fn.Private:
			out.fns = append(out.fns, s.Fn.Name)
		}
	}

	for _, s := range script.Statements {
		if s.Export == nil {
			continue
		}
		for _, item := range s.Export.Items {
			if lets[item.Name] {
				out.vars = append(out.vars, item.ExportName())
				continue
			}
			path, ok := imports[item.Name]
			if !ok {
				continue
			}
			sub, err := moduleExports(cfg, path, depth+1)
			if err != nil {
				log.Debugf("exports: cannot read '%s': %s", path, err)
				continue
			}
			prefix := item.ExportName() + "::"
			for _, name := range sub.vars {
				out.vars = append(out.vars, prefix+name)
			}
			for _, name := range sub.fns {
				out.fns = append(out.fns, prefix+name)
			}
		}
	}

	slices.Sort(out.vars)
	slices.Sort(out.fns)
	out.vars = slices.Compact(out.vars)
	out.fns = slices.Compact(out.fns)
	return out
}
