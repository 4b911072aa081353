package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snedea/arcane-auditor/pkg/model"
)

func TestScriptFieldsOrder(t *testing.T) {
	m, err := model.Build("pages/orderPage.pmd", pageText)
	require.NoError(t, err)

	fields := model.ScriptFields(m)
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = f.FieldPath
	}
	assert.Equal(t, []string{
		"onLoad",
		"onSubmit",
		"inboundEndpoints[0].onReceive",
		"outboundEndpoints[0].onSend",
		"presentation.body.children[0].onClick",
	}, paths)
}

func TestScriptFieldNames(t *testing.T) {
	m, err := model.Build("pages/orderPage.pmd", pageText)
	require.NoError(t, err)

	byPath := make(map[string]model.ScriptField)
	for _, f := range model.ScriptFields(m) {
		byPath[f.FieldPath] = f
	}

	assert.Equal(t, "onLoad", byPath["onLoad"].FieldName)
	assert.Equal(t, "onReceive", byPath["inboundEndpoints[0].onReceive"].FieldName)
	assert.Equal(t, "onClick", byPath["presentation.body.children[0].onClick"].FieldName)
}

func TestScriptFieldLineOffsets(t *testing.T) {
	m, err := model.Build("pages/orderPage.pmd", pageText)
	require.NoError(t, err)

	byPath := make(map[string]model.ScriptField)
	for _, f := range model.ScriptFields(m) {
		byPath[f.FieldPath] = f
	}

	assert.Equal(t, 3, byPath["onLoad"].LineOffset)
	assert.Equal(t, 6, byPath["onSubmit"].LineOffset)
	assert.Equal(t, 11, byPath["inboundEndpoints[0].onReceive"].LineOffset)
}

func TestScriptFieldsRepeatedValueGetsDistinctLines(t *testing.T) {
	text := `{
  "id": "p",
  "onLoad": "<%
    shared();
  %>",
  "script": "<%
    shared();
  %>"
}`
	m, err := model.Build("p.pmd", text)
	require.NoError(t, err)

	fields := model.ScriptFields(m)
	require.Len(t, fields, 2)
	assert.Equal(t, fields[0].RawText, fields[1].RawText)
	// Visit order matches file-scan order, so the first field gets the
	// first physical occurrence.
	assert.Equal(t, 3, fields[0].LineOffset)
	assert.Equal(t, 6, fields[1].LineOffset)
}

func TestScriptFieldsPresentationWalkDeterministic(t *testing.T) {
	text := `{
  "id": "p",
  "presentation": {
    "zeta": "<% z(); %>",
    "alpha": "<% a(); %>",
    "items": ["plain", "<% item(); %>"]
  }
}`
	m, err := model.Build("p.pmd", text)
	require.NoError(t, err)

	fields := model.ScriptFields(m)
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = f.FieldPath
	}
	// Map keys are walked in sorted order.
	assert.Equal(t, []string{
		"presentation.alpha",
		"presentation.items[1]",
		"presentation.zeta",
	}, paths)
}

func TestScriptFieldsSkipsPlainStrings(t *testing.T) {
	text := `{
  "id": "p",
  "presentation": { "title": "no script here" }
}`
	m, err := model.Build("p.pmd", text)
	require.NoError(t, err)
	assert.Empty(t, model.ScriptFields(m))
}

func TestScriptFieldsScriptFile(t *testing.T) {
	m, err := model.Build("util.script", "var x = 1;")
	require.NoError(t, err)

	fields := model.ScriptFields(m)
	require.Len(t, fields, 1)
	assert.Equal(t, "source", fields[0].FieldPath)
	assert.Equal(t, "var x = 1;", fields[0].RawText)
	assert.Equal(t, 1, fields[0].LineOffset)
}

func TestScriptFieldsEmptyScriptFile(t *testing.T) {
	m, err := model.Build("empty.script", "   \n  ")
	require.NoError(t, err)
	assert.Empty(t, model.ScriptFields(m))
}

func TestScriptFieldsAppAndSite(t *testing.T) {
	app, err := model.Build("a.amd", `{"id": "a"}`)
	require.NoError(t, err)
	assert.Empty(t, model.ScriptFields(app))

	site, err := model.Build("s.smd", `{"id": "s"}`)
	require.NoError(t, err)
	assert.Empty(t, model.ScriptFields(site))
}
