package usecase_test

import (
	"testing"

	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewResolver_Resolve(t *testing.T) {
	r := usecase.NewViewResolver(usecase.DefaultViewTable())

	v := r.Resolve("/vital-signs")
	assert.Equal(t, usecase.ViewRegistered, v.Kind)
	assert.Equal(t, "vital_signs", v.Name)
	assert.Equal(t, "생체징후", v.Title)

	v = r.Resolve("/member-info/?member=42")
	assert.Equal(t, usecase.ViewRegistered, v.Kind)
	assert.Equal(t, "member_info", v.Name)
	assert.Equal(t, "/member-info/?member=42", v.Href, "href is kept verbatim for rendering")
}

func TestViewResolver_UnknownFallsBackToFrame(t *testing.T) {
	r := usecase.NewViewResolver(usecase.ViewTable{"/a": {Name: "a"}})

	v := r.Resolve("/reports/monthly")
	assert.Equal(t, usecase.ViewFrame, v.Kind)
	assert.Empty(t, v.Name)
	assert.Equal(t, "/reports/monthly", v.Href)
}

func TestViewResolver_RoutesSorted(t *testing.T) {
	r := usecase.NewViewResolver(usecase.ViewTable{
		"/b/": {Name: "b"},
		"/a":  {Name: "a"},
	})

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/a", routes[0].Path)
	assert.Equal(t, "/b", routes[1].Path)
}
