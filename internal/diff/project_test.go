package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestProject_LinesAndPaths(t *testing.T) {
	p := Project(gjson.Parse(`{"status":"ok","items":[1,2]}`))

	expected := []string{
		"{",
		`  "status": "ok",`,
		`  "items": [`,
		"    1,",
		"    2",
		"  ]",
		"}",
	}
	assert.Equal(t, expected, p.Texts())

	line, ok := p.LineForString("status")
	require.True(t, ok)
	assert.Equal(t, 1, line)

	line, ok = p.LineForString("items")
	require.True(t, ok)
	assert.Equal(t, 2, line)

	line, ok = p.LineForString("items[1]")
	require.True(t, ok)
	assert.Equal(t, 4, line)

	// root registers its opening line
	line, ok = p.LineForString("")
	require.True(t, ok)
	assert.Equal(t, 0, line)
}

func TestProject_InsertionOrderPreserved(t *testing.T) {
	p := Project(gjson.Parse(`{"zebra":1,"alpha":2}`))

	assert.Equal(t, []string{
		"{",
		`  "zebra": 1,`,
		`  "alpha": 2`,
		"}",
	}, p.Texts())
}

func TestProject_EmptyContainersAreOneLine(t *testing.T) {
	p := Project(gjson.Parse(`{}`))
	assert.Equal(t, []string{"{}"}, p.Texts())

	p = Project(gjson.Parse(`{"a":{},"b":[]}`))
	assert.Equal(t, []string{
		"{",
		`  "a": {},`,
		`  "b": []`,
		"}",
	}, p.Texts())

	line, ok := p.LineForString("a")
	require.True(t, ok)
	assert.Equal(t, 1, line)
}

func TestProject_AtLeastOneLineForAnyValue(t *testing.T) {
	for _, doc := range []string{`{}`, `[]`, `null`, `true`, `42`, `"s"`, `{"a":[{"b":null}]}`} {
		p := Project(gjson.Parse(doc))
		assert.NotEmpty(t, p.Texts(), "document %s", doc)
	}
}

func TestProject_EveryPathHasExactlyOneStartingLine(t *testing.T) {
	doc := `{"a":{"b":[1,{"c":2},[]],"d":null},"e":"x"}`
	p := Project(gjson.Parse(doc))

	wantPaths := []string{"", "a", "a.b", "a.b[0]", "a.b[1]", "a.b[1].c", "a.b[2]", "a.d", "e"}
	for _, path := range wantPaths {
		_, ok := p.LineForString(path)
		assert.True(t, ok, "path %q has no starting line", path)
	}
	assert.Len(t, p.index, len(wantPaths))
}

func TestProject_ScalarLiterals(t *testing.T) {
	p := Project(gjson.Parse(`{"s":"he said \"hi\"","n":1.5,"t":true,"f":false,"z":null}`))

	assert.Equal(t, []string{
		"{",
		`  "s": "he said \"hi\"",`,
		`  "n": 1.5,`,
		`  "t": true,`,
		`  "f": false,`,
		`  "z": null`,
		"}",
	}, p.Texts())
}

func TestProjectAbsent(t *testing.T) {
	p := ProjectAbsent()

	assert.Equal(t, []string{AbsentPlaceholder}, p.Texts())
	_, ok := p.LineForString("")
	assert.False(t, ok)
}

func TestProject_SidesProjectIndependently(t *testing.T) {
	left := Project(gjson.Parse(`{"extra":{"x":1},"shared":"v"}`))
	right := Project(gjson.Parse(`{"shared":"v"}`))

	leftLine, ok := left.LineForString("shared")
	require.True(t, ok)
	rightLine, ok := right.LineForString("shared")
	require.True(t, ok)
	assert.NotEqual(t, leftLine, rightLine)
}
