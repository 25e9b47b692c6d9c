package config

import (
	"bufio"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DetectProjectName infers a project name from the manifest files in dir.
// It tries go.mod, package.json, pyproject.toml and Cargo.toml in that
// order and falls back to the directory base name. Unreadable manifests are
// skipped.
func DetectProjectName(dir string) string {
	for _, detect := range []func(string) string{
		detectFromGoMod,
		detectFromPackageJSON,
		detectFromPyproject,
		detectFromCargo,
	} {
		if name := detect(dir); name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}

// detectFromGoMod returns the last element of the module path, skipping a
// major-version suffix such as /v2.
func detectFromGoMod(dir string) string {
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		mod, ok := strings.CutPrefix(line, "module ")
		if !ok {
			continue
		}
		mod = strings.Trim(strings.TrimSpace(mod), `"`)
		base := path.Base(mod)
		if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
			base = path.Base(path.Dir(mod))
		}
		return base
	}
	return ""
}

type packageJSON struct {
	Name string `json:"name"`
}

func detectFromPackageJSON(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var p packageJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.Name
}

type pyprojectTOML struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

func detectFromPyproject(dir string) string {
	var p pyprojectTOML
	if _, err := toml.DecodeFile(filepath.Join(dir, "pyproject.toml"), &p); err != nil {
		return ""
	}
	return p.Project.Name
}

type cargoTOML struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

func detectFromCargo(dir string) string {
	var c cargoTOML
	if _, err := toml.DecodeFile(filepath.Join(dir, "Cargo.toml"), &c); err != nil {
		return ""
	}
	return c.Package.Name
}
