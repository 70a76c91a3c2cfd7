package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/internal/handlers"
	"github.com/shieldads/shieldads/pkg/templates"
)

func TestCatalogHandler_Plans(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/plans", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := handlers.NewCatalogHandler()
	require.NoError(t, h.Plans(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var plans []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	assert.Len(t, plans, 6)
}

func TestCatalogHandler_BlockReasons(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/block-reasons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := handlers.NewCatalogHandler()
	require.NoError(t, h.BlockReasons(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var catalog struct {
		Version    int              `json:"version"`
		Categories []map[string]any `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, 1, catalog.Version)
	assert.NotEmpty(t, catalog.Categories)
}

func TestCatalogHandler_ScriptTemplate(t *testing.T) {
	e := echo.New()
	h := handlers.NewCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("key")
	c.SetParamValues(templates.SystemFraudR1)

	require.NoError(t, h.ScriptTemplate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var tpl struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpl))
	assert.Equal(t, templates.SystemFraudR1, tpl.Key)

	// Unknown keys are a 400, not an empty template
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("key")
	c.SetParamValues("NOT_A_TEMPLATE")

	err := h.ScriptTemplate(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
