package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"library-catalog/pkg/apierror"
)

// Schema ids of the embedded request schemas.
const (
	Login           = "login"
	Register        = "register"
	UserUpdate      = "user_update"
	ChangePassword  = "change_password"
	RoleAssign      = "role_assign"
	AuthorCreate    = "author_create"
	AuthorUpdate    = "author_update"
	PublisherCreate = "publisher_create"
	PublisherUpdate = "publisher_update"
	BookCreate      = "book_create"
	BookUpdate      = "book_update"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks request bodies against compiled JSON schemas keyed by $id.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func New() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		raw, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}

		var header struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", entry.Name(), err)
		}
		if header.ID == "" {
			return nil, fmt.Errorf("schema %s does not contain $id", entry.Name())
		}

		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", header.ID, err)
		}
		v.schemas[header.ID] = compiled
	}

	return v, nil
}

// MustNew panics when the embedded schemas do not compile.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// Validate returns a 400 APIError for malformed JSON and a 422 APIError
// listing every violated field otherwise.
func (v *Validator) Validate(schemaID string, body []byte) error {
	schema, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}

	if !json.Valid(body) {
		return apierror.BadRequest("request body must be valid JSON", "")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apierror.BadRequest("request body could not be validated", err.Error())
	}

	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	sort.Strings(fields)

	return apierror.Validation("request body failed validation", fields)
}
