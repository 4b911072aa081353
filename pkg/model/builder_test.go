package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snedea/arcane-auditor/pkg/model"
)

const pageText = `{
  "id": "orderPage",
  "onLoad": "<%
    self.refresh();
  %>",
  "onSubmit": "<% forms.submit(); %>",
  "inboundEndpoints": [
    {
      "name": "getOrders",
      "url": "/orders",
      "onReceive": "<% orders.normalize(data); %>"
    }
  ],
  "outbound": {
    "endpoints": [
      {
        "name": "saveOrder",
        "url": "/orders/save",
        "bestEffort": true,
        "onSend": "<% payload.stamp(); %>"
      }
    ]
  },
  "presentation": {
    "microConclusion": true,
    "title": "Orders",
    "body": {
      "children": [
        { "type": "button", "onClick": "<% self.close(); %>" }
      ]
    }
  }
}`

func TestBuildPage(t *testing.T) {
	m, err := model.Build("pages/orderPage.pmd", pageText)
	require.NoError(t, err)

	page, ok := m.(*model.Page)
	require.True(t, ok)
	assert.Equal(t, model.KindPage, page.ModelKind())
	assert.Equal(t, "orderPage", page.ID())
	assert.Equal(t, "pages/orderPage.pmd", page.Path())
	assert.Equal(t, "<%\n    self.refresh();\n  %>", page.OnLoad)
	assert.Equal(t, "<% forms.submit(); %>", page.OnSubmit)

	require.Len(t, page.InboundEndpoints, 1)
	assert.Equal(t, "getOrders", page.InboundEndpoints[0].Name)
	assert.Equal(t, "<% orders.normalize(data); %>", page.InboundEndpoints[0].OnReceive)

	// The nested outbound.endpoints list is flattened onto the model.
	require.Len(t, page.OutboundEndpoints, 1)
	assert.Equal(t, "saveOrder", page.OutboundEndpoints[0].Name)
	assert.True(t, page.OutboundEndpoints[0].BestEffort)

	// microConclusion is hoisted out of the presentation tree.
	assert.Equal(t, true, page.Attributes["microConclusion"])
	assert.NotContains(t, page.Presentation, "microConclusion")
	assert.Equal(t, "Orders", page.Presentation["title"])
}

func TestBuildPageIDFallsBackToStem(t *testing.T) {
	m, err := model.Build("pages/checkout.pmd", `{"presentation": {}}`)
	require.NoError(t, err)
	assert.Equal(t, "checkout", m.ID())
}

func TestBuildFragment(t *testing.T) {
	text := `{
  "id": "addressBlock",
  "onLoad": "<% block.init(); %>",
  "presentation": { "label": "Address" }
}`
	m, err := model.Build("fragments/addressBlock.pod", text)
	require.NoError(t, err)

	frag, ok := m.(*model.Fragment)
	require.True(t, ok)
	assert.Equal(t, "addressBlock", frag.ID())
	assert.Equal(t, "<% block.init(); %>", frag.OnLoad)
}

func TestBuildApp(t *testing.T) {
	m, err := model.Build("demo.amd", `{"id": "demoApp", "locale": "en_US"}`)
	require.NoError(t, err)

	app, ok := m.(*model.App)
	require.True(t, ok)
	assert.Equal(t, "demoApp", app.ID())
	assert.Equal(t, "en_US", app.Raw["locale"])
}

func TestBuildSite(t *testing.T) {
	m, err := model.Build("demo.smd", `{"id": "demoSite"}`)
	require.NoError(t, err)

	site, ok := m.(*model.Site)
	require.True(t, ok)
	assert.Equal(t, "demoSite", site.ID())
}

func TestBuildScriptFile(t *testing.T) {
	m, err := model.Build("util.script", "var helper = function() { return 1; };")
	require.NoError(t, err)

	sf, ok := m.(*model.ScriptFile)
	require.True(t, ok)
	assert.Equal(t, "util", sf.ID())
	assert.Equal(t, "var helper = function() { return 1; };", sf.SourceContent)
}

func TestBuildUnknownExtension(t *testing.T) {
	_, err := model.Build("notes.txt", "whatever")
	var unknownErr *model.UnknownKindError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "notes.txt", unknownErr.Path)
}

func TestBuildInvalidJSON(t *testing.T) {
	_, err := model.Build("broken.pmd", `{"id": "x", }`)
	var decodeErr *model.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "broken.pmd", decodeErr.Path)
	assert.NotNil(t, decodeErr.Unwrap())
}

func TestBuildMultilineValueDecodes(t *testing.T) {
	// The raw text is not valid JSON until the preprocessor rewrites the
	// multiline value; Build must succeed on it regardless.
	m, err := model.Build("p.pmd", pageText)
	require.NoError(t, err)

	page := m.(*model.Page)
	ranges := page.Table.Lookup(page.OnLoad)
	require.Len(t, ranges, 1)
	assert.Equal(t, 3, ranges[0][0])
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want model.Kind
	}{
		{path: "a/b/page.pmd", want: model.KindPage},
		{path: "frag.pod", want: model.KindFragment},
		{path: "app.AMD", want: model.KindApp},
		{path: "site.smd", want: model.KindSite},
		{path: "util.script", want: model.KindScript},
		{path: "readme.md", want: model.KindUnknown},
		{path: "noext", want: model.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, model.KindForPath(tt.path))
		})
	}
}
