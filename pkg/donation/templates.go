package donation

import (
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// TemplateSet holds localized response templates/prompts for one
// handler, keyed by language then template key.
type TemplateSet struct {
	DefaultLanguage string
	byLanguage      map[string]map[string]string
}

// NewTemplateSet constructs an empty set falling back to defaultLanguage
// when a requested language has no entry.
func NewTemplateSet(defaultLanguage string) *TemplateSet {
	return &TemplateSet{DefaultLanguage: defaultLanguage, byLanguage: map[string]map[string]string{}}
}

// LoadTemplates reads {handler}/{lang}.yaml files from fsys and adds
// their contents to the set.
func LoadTemplates(fsys fs.FS, ts *TemplateSet, handler string) error {
	files, err := fs.ReadDir(fsys, handler)
	if err != nil {
		return ireneerrors.New("donation.LoadTemplates", ireneerrors.CodeDonation, "cannot list template dir "+handler, err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		lang := trimYAMLExt(f.Name())
		if lang == f.Name() {
			continue // not a .yaml/.yml file
		}
		raw, err := fs.ReadFile(fsys, handler+"/"+f.Name())
		if err != nil {
			return ireneerrors.New("donation.LoadTemplates", ireneerrors.CodeDonation, "cannot read "+f.Name(), err)
		}
		var entries map[string]string
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return ireneerrors.New("donation.LoadTemplates", ireneerrors.CodeDonation, "invalid YAML in "+f.Name(), err)
		}
		if ts.byLanguage[lang] == nil {
			ts.byLanguage[lang] = map[string]string{}
		}
		for k, v := range entries {
			ts.byLanguage[lang][k] = v
		}
	}
	return nil
}

func trimYAMLExt(name string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// Lookup returns the template for key in language, falling back to the
// default language when the requested language has no entry.
func (ts *TemplateSet) Lookup(language, key string) (string, bool) {
	if byKey, ok := ts.byLanguage[language]; ok {
		if v, ok := byKey[key]; ok {
			return v, true
		}
	}
	if byKey, ok := ts.byLanguage[ts.DefaultLanguage]; ok {
		if v, ok := byKey[key]; ok {
			return v, true
		}
	}
	return "", false
}
