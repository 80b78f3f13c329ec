package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/internal/pdftest"
)

func TestDocumentResolveDangling(t *testing.T) {
	doc := mustParse(t, helloPDF())

	obj, err := doc.ResolveReference(core.IndirectRef{Number: 99})
	require.NoError(t, err)
	assert.Equal(t, core.Null{}, obj)

	obj, err = doc.ResolveReference(core.IndirectRef{Number: 1, Generation: 3})
	require.NoError(t, err)
	assert.Equal(t, core.Null{}, obj)

	obj, err = doc.Resolve(core.IndirectRef{Number: 99})
	require.NoError(t, err)
	assert.Equal(t, core.Null{}, obj)
}

func TestDocumentResolve(t *testing.T) {
	doc := mustParse(t, helloPDF())

	obj, err := doc.Resolve(core.IndirectRef{Number: 4})
	require.NoError(t, err)
	font, ok := obj.(core.Dict)
	require.True(t, ok)
	base, _ := font.GetName("BaseFont")
	assert.Equal(t, core.Name("Helvetica"), base)

	// direct objects pass through
	obj, err = doc.Resolve(core.Int(7))
	require.NoError(t, err)
	assert.Equal(t, core.Int(7), obj)
}

func TestDocumentResolveDeep(t *testing.T) {
	doc := mustParse(t, helloPDF())

	obj, err := doc.ResolveDeep(core.IndirectRef{Number: 3})
	require.NoError(t, err)
	page := obj.(core.Dict)

	resources, ok := page.GetDict("Resources")
	require.True(t, ok)
	fonts, ok := resources.GetDict("Font")
	require.True(t, ok)
	_, ok = fonts.GetDict("F1")
	assert.True(t, ok, "nested font reference should be resolved")
}

func TestDocumentCatalogAndInfo(t *testing.T) {
	data := onePage("1.4", helloContent).
		Object(6, "<< /Title <FEFF00480069> /Author (Ann) /Pages 3 >>").
		XRef("/Root 1 0 R /Info 6 0 R").
		Bytes()
	doc := mustParse(t, data)

	catalog, err := doc.Catalog()
	require.NoError(t, err)
	assert.True(t, catalog.Has("Pages"))

	info, err := doc.Info()
	require.NoError(t, err)
	require.NotNil(t, info)

	meta, err := doc.Metadata()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Title": "Hi", "Author": "Ann"}, meta)
}

func TestDocumentNoInfo(t *testing.T) {
	doc := mustParse(t, helloPDF())

	info, err := doc.Info()
	require.NoError(t, err)
	assert.Nil(t, info)

	meta, err := doc.Metadata()
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestDocumentCatalogNotADictionary(t *testing.T) {
	data := onePage("1.4", helloContent).XRef("/Root 5 0 R").Bytes()
	doc := mustParse(t, data)

	_, err := doc.Catalog()
	assert.Error(t, err)
	assert.Equal(t, 0, doc.PageCount())
}

func TestDocumentPages(t *testing.T) {
	data := pdftest.New("1.4").
		Object(1, "<< /Type /Catalog /Pages 2 0 R >>").
		Object(2, "<< /Type /Pages /Kids [3 0 R 6 0 R] /Count 2 /MediaBox [0 0 300 400] /Rotate -90 >>").
		Object(3, "<< /Type /Page /Parent 2 0 R >>").
		Object(6, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Rotate 0 >>").
		XRef("/Root 1 0 R").
		Bytes()
	doc := mustParse(t, data)

	assert.Equal(t, 2, doc.PageCount())
	list, err := doc.Pages()
	require.NoError(t, err)
	require.Len(t, list, 2)

	h, err := list[0].Height()
	require.NoError(t, err)
	assert.InDelta(t, 400, h, 1e-9)
	assert.Equal(t, 270, list[0].Rotate())

	h, err = list[1].Height()
	require.NoError(t, err)
	assert.InDelta(t, 792, h, 1e-9)
	assert.Equal(t, 0, list[1].Rotate())

	_, err = doc.Page(2)
	assert.Error(t, err)
	_, err = doc.Page(-1)
	assert.Error(t, err)
}

func TestDocumentPageCountWithoutCount(t *testing.T) {
	data := pdftest.New("1.4").
		Object(1, "<< /Type /Catalog /Pages 2 0 R >>").
		Object(2, "<< /Type /Pages /Kids [3 0 R 4 0 R 5 0 R] >>").
		Object(3, "<< /Type /Page >>").
		Object(4, "<< /Type /Page >>").
		Object(5, "<< /Type /Page >>").
		XRef("/Root 1 0 R").
		Bytes()
	doc := mustParse(t, data)

	assert.Equal(t, 3, doc.PageCount())
}

func TestDocumentPageCountMissingTree(t *testing.T) {
	data := pdftest.New("1.4").
		Object(1, "<< /Type /Catalog >>").
		XRef("/Root 1 0 R").
		Bytes()
	doc := mustParse(t, data)

	assert.Equal(t, 0, doc.PageCount())
	_, err := doc.ExtractText(0)
	assert.Error(t, err)
}

func TestDocumentFontMap(t *testing.T) {
	doc := mustParse(t, helloPDF())

	fonts, err := doc.FontMap(0)
	require.NoError(t, err)
	require.Contains(t, fonts, "F1")
	assert.Equal(t, "Type1", fonts["F1"].Subtype)
	assert.Equal(t, "Helvetica", fonts["F1"].BaseFont)
	assert.False(t, fonts["F1"].HasToUnicode())

	_, err = doc.FontMap(3)
	assert.Error(t, err)
}

func TestDocumentDecodeStream(t *testing.T) {
	data := onePage("1.4", helloContent).
		FlateStream(6, "", []byte("compressed payload")).
		XRef("/Root 1 0 R").
		Bytes()
	doc := mustParse(t, data)

	obj, ok := doc.GetObject(core.ObjectID{Number: 6})
	require.True(t, ok)
	stream := obj.(*core.Stream)
	assert.NotEqual(t, "compressed payload", string(stream.Data))

	decoded, err := doc.DecodeStream(stream)
	require.NoError(t, err)
	assert.Equal(t, "compressed payload", string(decoded))

	_, err = doc.DecodeStream(nil)
	assert.Error(t, err)
}

func TestDocumentAccessors(t *testing.T) {
	doc := mustParse(t, helloPDF(), WithParsingMode(Strict))

	assert.Equal(t, Strict, doc.Config().ParsingMode)
	assert.NotNil(t, doc.XRef())
	entry, ok := doc.XRef().Get(3)
	require.True(t, ok)
	assert.Equal(t, core.XRefInUse, entry.Type)

	root, ok := doc.Trailer().GetIndirectRef("Root")
	require.True(t, ok)
	assert.Equal(t, 1, root.Number)
}
