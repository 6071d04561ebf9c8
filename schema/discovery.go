package schema

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultEnvVar names the environment variable checked first by Discover
const DefaultEnvVar = "TYPEID_SCHEMA"

// Location is one place Discover looks for a schema file.
type Location string

const (
	LocationEnv        Location = "env"
	LocationCwd        Location = "cwd"
	LocationUserConfig Location = "user_config"
)

// DefaultOrder is the default discovery precedence, first match wins
var DefaultOrder = []Location{LocationEnv, LocationCwd, LocationUserConfig}

var (
	cwdCandidates  = []string{"typeid.schema.json", "typeid.schema.yaml", "typeid.schema.yml"}
	userCandidates = []string{"schema.json", "schema.yaml", "schema.yml"}
)

// Discovery is the result of Discover. Path is empty when nothing was found.
type Discovery struct {
	Path   string
	Source string
}

// Found reports whether a schema file was located
func (d Discovery) Found() bool {
	return d.Path != ""
}

// Discoverer locates a schema file. The zero value uses DefaultEnvVar, the
// process working directory, the user config directory and DefaultOrder.
type Discoverer struct {
	EnvVar    string
	Dir       string
	ConfigDir string
	Order     []Location
}

// Discover runs the default Discoverer
func Discover() Discovery {
	return Discoverer{}.Discover()
}

// Discover returns the first schema file found in d's order. An environment
// variable that names a missing file ends the search with nothing found.
func (d Discoverer) Discover() Discovery {
	for _, loc := range d.order() {
		switch loc {
		case LocationEnv:
			env := d.envVar()
			value := os.Getenv(env)
			if value == "" {
				continue
			}
			p := expandHome(value)
			if isFile(p) {
				return Discovery{Path: p, Source: "env:" + env}
			}
			return Discovery{Source: "env:" + env + " (not found)"}
		case LocationCwd:
			if p := firstFile(d.dir(), cwdCandidates); p != "" {
				return Discovery{Path: p, Source: string(LocationCwd)}
			}
		case LocationUserConfig:
			if base := d.configDir(); base != "" {
				if p := firstFile(filepath.Join(base, "typeid"), userCandidates); p != "" {
					return Discovery{Path: p, Source: string(LocationUserConfig)}
				}
			}
		}
	}
	return Discovery{Source: "none"}
}

// Candidates lists every file path Discover would try, in order, excluding
// the environment variable.
func (d Discoverer) Candidates() []string {
	var out []string
	for _, loc := range d.order() {
		switch loc {
		case LocationCwd:
			for _, name := range cwdCandidates {
				out = append(out, filepath.Join(d.dir(), name))
			}
		case LocationUserConfig:
			if base := d.configDir(); base != "" {
				for _, name := range userCandidates {
					out = append(out, filepath.Join(base, "typeid", name))
				}
			}
		}
	}
	return out
}

func (d Discoverer) order() []Location {
	if len(d.Order) > 0 {
		return d.Order
	}
	return DefaultOrder
}

func (d Discoverer) envVar() string {
	if d.EnvVar != "" {
		return d.EnvVar
	}
	return DefaultEnvVar
}

func (d Discoverer) dir() string {
	if d.Dir != "" {
		return d.Dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (d Discoverer) configDir() string {
	if d.ConfigDir != "" {
		return d.ConfigDir
	}
	return UserConfigDir()
}

// UserConfigDir returns APPDATA, then XDG_CONFIG_HOME, then ~/.config.
func UserConfigDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return expandHome(appdata)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return expandHome(xdg)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config")
}

func firstFile(dir string, names []string) string {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
