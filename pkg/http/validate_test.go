package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageQuery struct {
	Name string `query:"name" default:"all"`
	Size int    `query:"size" default:"10" validate:"gte=1,lte=100"`
}

func bindQuery(t *testing.T, rawQuery string, req interface{}) interface{} {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	c := e.NewContext(r, httptest.NewRecorder())
	return ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	var q pageQuery
	require.Nil(t, bindQuery(t, "", &q))
	assert.Equal(t, "all", q.Name)
	assert.Equal(t, 10, q.Size)
}

func TestReadAndValidateRequestKeepsPresetValues(t *testing.T) {
	q := pageQuery{Name: "preset", Size: 5}
	require.Nil(t, bindQuery(t, "name=x", &q))
	assert.Equal(t, "x", q.Name)
	assert.Equal(t, 5, q.Size)
}

func TestReadAndValidateRequestRejectsExplicitZero(t *testing.T) {
	var q pageQuery
	verr := bindQuery(t, "size=0", &q)
	require.NotNil(t, verr)

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_GTE", errs[0].Code)
	assert.Equal(t, "size", errs[0].Field)
	assert.Equal(t, "size must be greater than or equal to 1", errs[0].Message)
}

func TestReadAndValidateRequestBindError(t *testing.T) {
	var q pageQuery
	verr := bindQuery(t, "size=many", &q)

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
