package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Load reads a schema from path. Files ending in .yaml or .yml are parsed
// as YAML and .cue files as CUE; a directory is loaded as a CUE package.
func Load(path string) (*Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("schema not found: %v", err)}
	}
	if info.IsDir() {
		return loadCUEDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("reading schema: %v", err)}
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return nil, &Error{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unsupported schema file %s (want .yaml, .yml or .cue)", path)}
	}
}

func loadCUEDir(dir string) (*Schema, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &Error{Code: ErrCodeRead, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	return CompileCUE(cuecontext.New().BuildInstance(inst))
}
