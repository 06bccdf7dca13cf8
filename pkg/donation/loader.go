package donation

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/internal/syncutil"
	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// loadConcurrency bounds how many handler directories LoadAll parses at
// once. Handlers load independently and Merge is associative, so the
// result does not depend on completion order.
const loadConcurrency = 8

// MethodExistenceChecker reports whether handlerDomain exposes method —
// the loader uses it to reject donations that reference code that does
// not exist.
type MethodExistenceChecker func(handlerDomain, method string) bool

// Loader discovers, validates and merges donation files from a
// filesystem root laid out as one directory per handler, one file per
// language ({lang}.json).
type Loader struct {
	FS             fs.FS
	Schema         *gojsonschema.Schema
	CheckMethod    MethodExistenceChecker
	Strict         bool
	DefaultLanguage string
}

// NewLoader builds a Loader validating against schemaJSON (the raw JSON
// Schema document). Strict mode is fatal on schema/method errors;
// non-strict logs and skips the offending file.
func NewLoader(fsys fs.FS, schemaJSON []byte, checkMethod MethodExistenceChecker, strict bool) (*Loader, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, ireneerrors.New("donation.NewLoader", ireneerrors.CodeDonation, "invalid donation schema document", err)
	}
	return &Loader{FS: fsys, Schema: schema, CheckMethod: checkMethod, Strict: strict, DefaultLanguage: "en"}, nil
}

// LoadAll discovers every handler directory under the loader's root and
// returns one unified HandlerDonation per handler.
func (l *Loader) LoadAll() (map[string]*HandlerDonation, error) {
	entries, err := fs.ReadDir(l.FS, ".")
	if err != nil {
		return nil, ireneerrors.New("donation.LoadAll", ireneerrors.CodeDonation, "cannot list donation root", err)
	}

	var (
		mu     sync.Mutex
		result = map[string]*HandlerDonation{}
	)
	group := syncutil.NewGroup(loadConcurrency)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		handler := e.Name()
		group.Go(func() error {
			merged, err := l.loadHandler(handler)
			if err != nil {
				if l.Strict {
					return err
				}
				o11y.Default().Warn("skipping donation handler due to error", "handler", handler, "err", err)
				return nil
			}
			if merged != nil {
				mu.Lock()
				result[handler] = merged
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Loader) loadHandler(handler string) (*HandlerDonation, error) {
	files, err := fs.ReadDir(l.FS, handler)
	if err != nil {
		return nil, ireneerrors.New("donation.loadHandler", ireneerrors.CodeDonation, "cannot list handler dir "+handler, err)
	}

	var perLanguage []*HandlerDonation
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(f.Name(), ".json")
		path := filepath.Join(handler, f.Name())
		raw, err := fs.ReadFile(l.FS, path)
		if err != nil {
			return nil, ireneerrors.New("donation.loadHandler", ireneerrors.CodeDonation, "cannot read "+path, err)
		}

		hd, err := l.parseAndValidate(raw, handler, lang, path)
		if err != nil {
			if l.Strict {
				return nil, err
			}
			o11y.Default().Warn("skipping donation file due to error", "path", path, "err", err)
			continue
		}
		perLanguage = append(perLanguage, hd)
	}
	if len(perLanguage) == 0 {
		return nil, nil
	}
	return Merge(perLanguage...), nil
}

func (l *Loader) parseAndValidate(raw []byte, handler, lang, path string) (*HandlerDonation, error) {
	result, err := l.Schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, ireneerrors.New("donation.parseAndValidate", ireneerrors.CodeDonation, "schema validation failed for "+path, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, ireneerrors.New("donation.parseAndValidate", ireneerrors.CodeDonation,
			fmt.Sprintf("%s failed schema validation: %s", path, strings.Join(msgs, "; ")), nil)
	}

	var rd RawDonation
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, ireneerrors.New("donation.parseAndValidate", ireneerrors.CodeDonation, "invalid JSON in "+path, err)
	}
	if rd.HandlerDomain == "" {
		rd.HandlerDomain = handler
	}
	if rd.Language == "" {
		rd.Language = lang
	}

	hd := &HandlerDonation{
		HandlerDomain:    rd.HandlerDomain,
		GlobalParameters: rd.GlobalParameters,
		IntentPatterns:   rd.IntentPatterns,
		ActionPatterns:   rd.ActionPatterns,
		DomainPatterns:   rd.DomainPatterns,
		NegativePatterns: rd.NegativePatterns,
		Methods:          map[string]*MethodDonation{},
	}
	for i := range rd.Methods {
		m := rd.Methods[i]
		if l.CheckMethod != nil && !l.CheckMethod(rd.HandlerDomain, m.Method) {
			return nil, ireneerrors.New("donation.parseAndValidate", ireneerrors.CodeDonation,
				fmt.Sprintf("%s references unknown method %s.%s", path, rd.HandlerDomain, m.Method), nil)
		}
		hd.Methods[m.Intent] = &m
	}
	return hd, nil
}
