package engine

import (
	"loom/internal/errors"
	"loom/internal/scope"
)

// importModule resolves n.path, indexes the result and binds it to n.alias.
// Resolvers that run scripts receive an importer, so imports inside the
// loaded script count towards the depth limit.
func (s *state) importModule(sc *scope.Scope, n *importStmt) error {
	r := s.engine.resolver
	if r == nil {
		return errors.NoResolver(n.path, n.pos)
	}
	if s.imports >= s.engine.maxImportDepth {
		return errors.New(errors.ErrorImportTooDeep, n.pos,
			"import of '%s' exceeds the maximum depth of %d", n.path, s.engine.maxImportDepth)
	}

	s.engine.log.Debugf("import '%s' as %s", n.path, n.alias)

	m, err := r.Resolve(&importer{Engine: s.engine, depth: s.imports + 1}, scope.New(), n.path, n.pos)
	if err != nil {
		return err
	}
	m.IndexAllSubModules()
	sc.PushModule(n.alias, m)
	return nil
}
