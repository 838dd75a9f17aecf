package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

var python = lang.Languages["python"]

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"class", "Test(Parent):"}, Tokenize("class Test(Parent):"))
	assert.Equal(t,
		[]string{"class", "Test(Parent,", "Sibling):"},
		Tokenize("class Test(Parent, Sibling):"))
	assert.Equal(t,
		[]string{"class", "A:", "pass"},
		Tokenize("  class\tA:\n\n    pass  \r\n"))
	assert.Empty(t, Tokenize(" \n\t "))
}

func TestIsClassName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"Test", true},
		{"test", false},
		{"TEst", false},
		{"HTTPServer", false},
		{"Test(Parent):", true},
		{"Test(Parent,", true},
		{"Sibling):", true},
		{"Base2:", true},
		{"A:", true},
		{"AB:", false},
		{"A1B:", false},
		{"_Private:", false},
		{"Éclair:", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsClassName(tt.token))
		})
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []model.Header
	}{
		{
			name:   "no keyword",
			tokens: []string{"def", "func:"},
			want:   nil,
		},
		{
			name:   "root class",
			tokens: []string{"class", "Test:"},
			want:   []model.Header{{"Test:"}},
		},
		{
			name:   "single parent",
			tokens: []string{"class", "Test(Parent):"},
			want:   []model.Header{{"Test(Parent):"}},
		},
		{
			name:   "two parents",
			tokens: []string{"class", "Test(Parent,", "Sibling):"},
			want:   []model.Header{{"Test(Parent,", "Sibling):"}},
		},
		{
			name:   "three parents then another class",
			tokens: []string{"class", "Cat(Animal,", "Pet,", "Cute):", "pass", "class", "Kitten(Cat):"},
			want:   []model.Header{{"Cat(Animal,", "Pet,", "Cute):"}, {"Kitten(Cat):"}},
		},
		{
			name:   "lowercase name after keyword",
			tokens: []string{"class", "foo:"},
			want:   nil,
		},
		{
			name:   "keyword not immediately before",
			tokens: []string{"class", "x", "Test:"},
			want:   nil,
		},
		{
			name:   "name without terminator or separator",
			tokens: []string{"class", "Test", ":"},
			want:   nil,
		},
		{
			name:   "keyword as last token",
			tokens: []string{"x", "class"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Headers(tt.tokens, python))
		})
	}
}

func TestHeadersUnterminatedIsDropped(t *testing.T) {
	t.Parallel()

	tokens := []string{"class", "Done(Base):", "class", "Open(Parent,", "Sibling)"}
	var got []model.Header
	require.NotPanics(t, func() { got = Headers(tokens, python) })
	assert.Equal(t, []model.Header{{"Done(Base):"}}, got)
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	_, ok := ParseHeader("Test:")
	assert.False(t, ok, "root declaration should be dropped")

	d, ok := ParseHeader("Test(Parent):")
	require.True(t, ok)
	assert.Equal(t, "Test", d.Name)
	assert.Equal(t, []string{"Parent"}, d.Parents)

	d, ok = ParseHeader("Test(Parent, Sibling):")
	require.True(t, ok)
	assert.Equal(t, "Test", d.Name)
	assert.Equal(t, []string{"Parent", "Sibling"}, d.Parents)

	_, ok = ParseHeader("Test():")
	assert.False(t, ok, "empty parent list yields no declaration")
}

func TestParseHeaderDegradesOnNestedParens(t *testing.T) {
	t.Parallel()

	// The first ")" closes the list, so the parent name is truncated.
	d, ok := ParseHeader("Test(Generic(T), Base):")
	require.True(t, ok)
	assert.Equal(t, "Test", d.Name)
	assert.Equal(t, []string{"Generic(T"}, d.Parents)

	// No closing paren: the list runs to the end.
	d, ok = ParseHeader("Test(Base:")
	require.True(t, ok)
	assert.Equal(t, []string{"Base:"}, d.Parents)
}

func TestEdges(t *testing.T) {
	t.Parallel()

	decls := []model.Declaration{
		{Name: "Test", Parents: []string{"Parent", "Sibling"}},
		{Name: "Lonely"},
	}
	assert.Equal(t, []model.Edge{
		{Child: "Test", Parent: "Parent"},
		{Child: "Test", Parent: "Sibling"},
	}, Edges(decls))
}

func TestFile(t *testing.T) {
	t.Parallel()

	src := `
class Base:
    pass

class Mixin(object):
    def run(self): pass

class Derived(Base, Mixin):
    pass

class HTTPHandler(Base):
    pass
`
	assert.Equal(t, []model.Edge{
		{Child: "Mixin", Parent: "object"},
		{Child: "Derived", Parent: "Base"},
		{Child: "Derived", Parent: "Mixin"},
	}, File(src, python))
}

func TestFileMalformedInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"class",
		"class Foo(",
		"class Foo(Bar,",
		"class Foo(Bar, Baz(Qux)):",
		"class ):",
		"class Foo((A)):",
		"class A(B,\nC,\n",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = File(in, python) }, "input %q", in)
	}
}

func TestExtractor(t *testing.T) {
	t.Parallel()

	ex := Extractor{Lang: python}
	edges, err := ex.Extract(context.Background(), model.Source{
		Path:    "a.py",
		Content: []byte("class Base: pass\nclass Derived(Base): pass"),
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{{Child: "Derived", Parent: "Base"}}, edges)
}
