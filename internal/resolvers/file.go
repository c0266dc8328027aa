package resolvers

import (
	"os"
	"path/filepath"
	"strings"

	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/scope"
	"loom/token"
)

// DefaultExtension is the script file extension used when none is given.
const DefaultExtension = "loom"

// FileResolver loads modules from script files under a base directory. The
// import path is joined to the base directory and its extension replaced
// with the configured one, so `import "lib/util"` and `import "lib/util.txt"`
// both load `<base>/lib/util.loom`.
//
// Every import compiles and runs the file again; nothing is cached.
type FileResolver struct {
	path      string
	extension string
}

// NewFileResolver resolves relative to the working directory.
func NewFileResolver() *FileResolver {
	return NewFileResolverWithPathAndExtension("", DefaultExtension)
}

func NewFileResolverWithPath(dir string) *FileResolver {
	return NewFileResolverWithPathAndExtension(dir, DefaultExtension)
}

func NewFileResolverWithPathAndExtension(dir, extension string) *FileResolver {
	return &FileResolver{
		path:      dir,
		extension: strings.TrimPrefix(extension, "."),
	}
}

func (r *FileResolver) BasePath() string { return r.path }

func (r *FileResolver) Extension() string { return r.extension }

// FilePath returns the file an import path maps to.
func (r *FileResolver) FilePath(path string) string {
	full := filepath.Join(r.path, filepath.FromSlash(path))
	full = strings.TrimSuffix(full, filepath.Ext(full))
	if r.extension == "" {
		return full
	}
	return full + "." + r.extension
}

// CreateModule compiles and runs the script behind path and builds a module
// from its exports. Errors keep the positions they were raised at.
func (r *FileResolver) CreateModule(engine module.Engine, sc *scope.Scope, path string) (*module.Module, error) {
	file := r.FilePath(path)
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ModuleNotFound(path, token.None())
		}
		return nil, &errors.EvalError{
			Code:    errors.ErrorModuleRead,
			Message: "cannot read module '" + path + "'",
			Name:    path,
			Err:     err,
		}
	}

	log.Debugf("loading module '%s' from %s", path, file)

	prog, err := engine.CompileFile(file)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		sc = scope.New()
	}
	return module.EvalASTAsNew(sc, prog, engine)
}

// Resolve is CreateModule with every error moved to the import position.
func (r *FileResolver) Resolve(engine module.Engine, sc *scope.Scope, path string, pos token.Position) (*module.Module, error) {
	m, err := r.CreateModule(engine, sc, path)
	if err != nil {
		return nil, errors.WithPosition(err, pos)
	}
	return m, nil
}
