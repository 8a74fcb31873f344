package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/pkg/apierror"
)

func status(t *testing.T, err error) (int, []string) {
	t.Helper()
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.HTTPStatus, apiErr.Fields
}

func TestAllSchemasCompile(t *testing.T) {
	v := MustNew()

	for _, id := range []string{
		Login, Register, UserUpdate, ChangePassword, RoleAssign,
		AuthorCreate, AuthorUpdate, PublisherCreate, PublisherUpdate, BookCreate, BookUpdate,
	} {
		assert.True(t, v.HasSchema(id), id)
	}
}

func TestValidateRegister(t *testing.T) {
	v := MustNew()

	require.NoError(t, v.Validate(Register, []byte(`{"username":"alice","email":"a@x.com","password":"secret123"}`)))

	code, fields := status(t, v.Validate(Register, []byte(`{"username":"al","email":"nope","password":"secret123"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Len(t, fields, 2)

	code, _ = status(t, v.Validate(Register, []byte(`{"username":"alice","email":"a@x.com","password":"secret123","role":"admin"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, code, "unknown properties are rejected")
}

func TestValidateBook(t *testing.T) {
	v := MustNew()

	require.NoError(t, v.Validate(BookCreate, []byte(`{"title":"Dune","isbn":"9780441172719","price":"9.99","author_ids":[1,2],"publisher_id":null}`)))
	require.NoError(t, v.Validate(BookUpdate, []byte(`{"publisher_id":null,"author_ids":null}`)))
	require.NoError(t, v.Validate(BookCreate, []byte(`{"title":"Dune","price":19.99}`)))
	require.NoError(t, v.Validate(BookUpdate, []byte(`{"price":0}`)))

	tests := map[string]string{
		"missing title":   `{"isbn":"9780441172719"}`,
		"short isbn":      `{"title":"Dune","isbn":"123"}`,
		"negative year":   `{"title":"Dune","publication_year":-1}`,
		"zero pages":      `{"title":"Dune","page_count":0}`,
		"three decimals":  `{"title":"Dune","price":"1.999"}`,
		"negative price":  `{"title":"Dune","price":"-1.00"}`,
		"negative number": `{"title":"Dune","price":-0.5}`,
		"price too large": `{"title":"Dune","price":1000000}`,
		"boolean price":   `{"title":"Dune","price":true}`,
		"string authors":  `{"title":"Dune","author_ids":["1"]}`,
		"empty title":     `{"title":""}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			code, fields := status(t, v.Validate(BookCreate, []byte(body)))
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.NotEmpty(t, fields)
		})
	}

	code, _ := status(t, v.Validate(BookUpdate, []byte(`{"title":null}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestValidateMalformedJSON(t *testing.T) {
	v := MustNew()

	code, _ := status(t, v.Validate(Login, []byte(`{"username_or_email":`)))
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Error(t, v.Validate("unknown", []byte(`{}`)))
}
